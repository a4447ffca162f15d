package signals

import (
	"context"
	"fmt"
	"time"

	"alpha_bot/internal/models"
	"alpha_bot/internal/modules/signals/service/pg/signals/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Store implement db store
type Store struct {
	sql *sql.Queries
}

// New instance
func New() *Store {
	return &Store{
		sql: sql.New(),
	}
}

// Insert пишет сигнал и проставляет ему ID/CreatedAt из базы.
func (s *Store) Insert(ctx context.Context, tx pgx.Tx, signal *models.Signal) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.Insert: %w", err)
		}
	}()

	row, err := s.sql.Insert(ctx, tx, &sql.InsertParams{
		Symbol:           signal.Symbol,
		Direction:        string(signal.Direction),
		Confidence:       signal.Confidence,
		RiskReward:       signal.RiskReward,
		EntryMin:         signal.EntryMin,
		EntryMax:         signal.EntryMax,
		StopLoss:         signal.StopLoss,
		TakeProfit:       signal.TakeProfit,
		Rationale:        signal.Rationale,
		HistoricalAnalog: signal.HistoricalAnalog,
		Outcome:          string(signal.Outcome),
		Reason:           string(signal.Reason),
		DeliveryStatus:   string(signal.DeliveryStatus),
	})
	if err != nil {
		return err
	}
	signal.ID = row.ID
	signal.CreatedAt = row.CreatedAt.Time
	return nil
}

func (s *Store) CountAdmittedSince(ctx context.Context, tx pgx.Tx, since time.Time) (count int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.CountAdmittedSince: %w", err)
		}
	}()
	return s.sql.CountAdmittedSince(ctx, tx, ts(since))
}

func (s *Store) ListPendingDelivery(ctx context.Context, tx pgx.Tx) (out []*models.Signal, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.ListPendingDelivery: %w", err)
		}
	}()
	rows, err := s.sql.ListPendingDelivery(ctx, tx)
	if err != nil {
		return nil, err
	}
	out = make([]*models.Signal, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out, nil
}

func (s *Store) HasSentForSymbolSince(ctx context.Context, tx pgx.Tx, symbol string, since time.Time) (ok bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.HasSentForSymbolSince: %w", err)
		}
	}()
	return s.sql.HasSentForSymbolSince(ctx, tx, &sql.HasSentForSymbolSinceParams{
		Symbol:    symbol,
		CreatedAt: ts(since),
	})
}

func (s *Store) SetDeliveryStatus(ctx context.Context, tx pgx.Tx, id int64, status models.DeliveryStatus) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.SetDeliveryStatus: %w", err)
		}
	}()
	return s.sql.SetDeliveryStatus(ctx, tx, &sql.SetDeliveryStatusParams{
		ID:             id,
		DeliveryStatus: string(status),
	})
}

func (s *Store) SetPositionID(ctx context.Context, tx pgx.Tx, id, positionID int64) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.SetPositionID: %w", err)
		}
	}()
	return s.sql.SetPositionID(ctx, tx, &sql.SetPositionIDParams{
		ID:         id,
		PositionID: pgtype.Int8{Int64: positionID, Valid: true},
	})
}

func (s *Store) List(ctx context.Context, tx pgx.Tx, filter models.HistoryFilter) (out []*models.Signal, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.List: %w", err)
		}
	}()
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	from := filter.From
	to := filter.To
	if to.IsZero() {
		to = time.Now().UTC()
	}
	rows, err := s.sql.List(ctx, tx, &sql.ListParams{
		Symbol:    filter.Symbol,
		Outcome:   filter.Status,
		From:      ts(from),
		To:        ts(to),
		RowsLimit: limit,
	})
	if err != nil {
		return nil, err
	}
	out = make([]*models.Signal, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out, nil
}

func ts(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func fromRow(r *sql.Signal) *models.Signal {
	out := &models.Signal{
		ID:               r.ID,
		Symbol:           r.Symbol,
		Direction:        models.Direction(r.Direction),
		Confidence:       r.Confidence,
		RiskReward:       r.RiskReward,
		EntryMin:         r.EntryMin,
		EntryMax:         r.EntryMax,
		StopLoss:         r.StopLoss,
		TakeProfit:       r.TakeProfit,
		Rationale:        r.Rationale,
		HistoricalAnalog: r.HistoricalAnalog,
		Outcome:          models.AdmissionOutcome(r.Outcome),
		Reason:           models.ReasonCode(r.Reason),
		DeliveryStatus:   models.DeliveryStatus(r.DeliveryStatus),
		CreatedAt:        r.CreatedAt.Time,
	}
	if r.PositionID.Valid {
		v := r.PositionID.Int64
		out.PositionID = &v
	}
	return out
}
