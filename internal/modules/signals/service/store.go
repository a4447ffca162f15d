package service

import (
	"context"
	"fmt"
	"time"

	"alpha_bot/internal/models"
	pgsignals "alpha_bot/internal/modules/signals/service/pg/signals"
	"alpha_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Store — история сигналов. Append-mostly: после вставки мутируют только
// delivery_status и position_id.
type Store struct {
	db   *db.PgTxManager
	repo *pgsignals.Store
}

func NewStore(manager *db.PgTxManager) *Store {
	return &Store{
		db:   manager,
		repo: pgsignals.New(),
	}
}

// InsertBatch пишет результаты допуска одного тика одной транзакцией.
// Персистенция всегда до диспатча: упавшая доставка не теряет запись.
func (s *Store) InsertBatch(ctx context.Context, batch []*models.Signal) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SignalStore.InsertBatch: %w", err)
		}
	}()
	if len(batch) == 0 {
		return nil
	}
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		for _, sig := range batch {
			if err := s.repo.Insert(ctxTx, tx, sig); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountAdmittedToday — квота считается от полуночи UTC.
func (s *Store) CountAdmittedToday(ctx context.Context) (count int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SignalStore.CountAdmittedToday: %w", err)
		}
	}()
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		count, err = s.repo.CountAdmittedSince(ctxTx, tx, midnight)
		return err
	})
	return count, err
}

// PendingDelivery — допущенные и ещё не доставленные сигналы, включая
// зависшие с прошлых тиков (отменённый тик не теряет и не дублирует доставку).
func (s *Store) PendingDelivery(ctx context.Context) (out []*models.Signal, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SignalStore.PendingDelivery: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		out, err = s.repo.ListPendingDelivery(ctxTx, tx)
		return err
	})
	return out, err
}

func (s *Store) SentForSymbolWithin(ctx context.Context, symbol string, window time.Duration) (ok bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SignalStore.SentForSymbolWithin: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		ok, err = s.repo.HasSentForSymbolSince(ctxTx, tx, symbol, time.Now().UTC().Add(-window))
		return err
	})
	return ok, err
}

func (s *Store) MarkDelivery(ctx context.Context, id int64, status models.DeliveryStatus) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SignalStore.MarkDelivery: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return s.repo.SetDeliveryStatus(ctxTx, tx, id, status)
	})
}

func (s *Store) LinkPosition(ctx context.Context, id, positionID int64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SignalStore.LinkPosition: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return s.repo.SetPositionID(ctxTx, tx, id, positionID)
	})
}

func (s *Store) History(ctx context.Context, filter models.HistoryFilter) (out []*models.Signal, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("SignalStore.History: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		out, err = s.repo.List(ctxTx, tx, filter)
		return err
	})
	return out, err
}
