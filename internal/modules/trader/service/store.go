package service

import (
	"context"
	"fmt"
	"time"

	"alpha_bot/internal/models"
	pgpositions "alpha_bot/internal/modules/trader/service/pg/positions"
	"alpha_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// PositionStore — контракт стора позиций для трекера и монитора.
type PositionStore interface {
	Insert(ctx context.Context, p *models.Position) error
	GetOpenBySymbol(ctx context.Context, symbol string) (*models.Position, error)
	ListOpen(ctx context.Context) ([]*models.Position, error)
	Close(ctx context.Context, id int64, exitPrice, realizedPnL float64, closedAt time.Time) error
	History(ctx context.Context, filter models.HistoryFilter) ([]*models.Position, error)
}

type PgPositions struct {
	db   *db.PgTxManager
	repo *pgpositions.Store
}

func NewPgPositions(manager *db.PgTxManager) *PgPositions {
	return &PgPositions{
		db:   manager,
		repo: pgpositions.New(),
	}
}

func (s *PgPositions) Insert(ctx context.Context, p *models.Position) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PositionStore.Insert: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return s.repo.Insert(ctxTx, tx, p)
	})
}

func (s *PgPositions) GetOpenBySymbol(ctx context.Context, symbol string) (p *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PositionStore.GetOpenBySymbol: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		p, err = s.repo.GetOpenBySymbol(ctxTx, tx, symbol)
		return err
	})
	return p, err
}

func (s *PgPositions) ListOpen(ctx context.Context) (out []*models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PositionStore.ListOpen: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		out, err = s.repo.ListOpen(ctxTx, tx)
		return err
	})
	return out, err
}

func (s *PgPositions) Close(ctx context.Context, id int64, exitPrice, realizedPnL float64, closedAt time.Time) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PositionStore.Close: %w", err)
		}
	}()
	return s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return s.repo.Close(ctxTx, tx, id, exitPrice, realizedPnL, closedAt)
	})
}

func (s *PgPositions) History(ctx context.Context, filter models.HistoryFilter) (out []*models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("PositionStore.History: %w", err)
		}
	}()
	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		out, err = s.repo.List(ctxTx, tx, filter)
		return err
	})
	return out, err
}
