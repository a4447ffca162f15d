package positions

import (
	"context"
	"fmt"
	"time"

	"alpha_bot/internal/models"
	"alpha_bot/internal/modules/trader/service/pg/positions/sql"

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

func (s *Store) Insert(ctx context.Context, tx pgx.Tx, p *models.Position) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.Insert: %w", err)
		}
	}()
	row, err := s.sql.Insert(ctx, tx, &sql.InsertParams{
		SignalID:   p.SignalID,
		Symbol:     p.Symbol,
		Side:       string(p.Side),
		Quantity:   p.Quantity,
		EntryPrice: p.EntryPrice,
		StopLoss:   p.StopLoss,
		TakeProfit: p.TakeProfit,
		OrderID:    p.OrderID,
	})
	if err != nil {
		return err
	}
	p.ID = row.ID
	p.OpenedAt = row.OpenedAt.Time
	p.Status = models.PositionOpen
	return nil
}

// GetOpenBySymbol возвращает (nil, nil), если открытой позиции нет.
func (s *Store) GetOpenBySymbol(ctx context.Context, tx pgx.Tx, symbol string) (p *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.GetOpenBySymbol: %w", err)
		}
	}()
	row, err := s.sql.GetOpenBySymbol(ctx, tx, symbol)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row), nil
}

func (s *Store) ListOpen(ctx context.Context, tx pgx.Tx) (out []*models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.ListOpen: %w", err)
		}
	}()
	rows, err := s.sql.ListOpen(ctx, tx)
	if err != nil {
		return nil, err
	}
	out = make([]*models.Position, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out, nil
}

func (s *Store) Close(ctx context.Context, tx pgx.Tx, id int64, exitPrice, realizedPnL float64, closedAt time.Time) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.Close: %w", err)
		}
	}()
	return s.sql.Close(ctx, tx, &sql.CloseParams{
		ID:          id,
		ExitPrice:   pgtype.Float8{Float64: exitPrice, Valid: true},
		RealizedPnl: pgtype.Float8{Float64: realizedPnL, Valid: true},
		ClosedAt:    pgtype.Timestamptz{Time: closedAt, Valid: true},
	})
}

func (s *Store) List(ctx context.Context, tx pgx.Tx, filter models.HistoryFilter) (out []*models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Positions.List: %w", err)
		}
	}()
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	to := filter.To
	if to.IsZero() {
		to = time.Now().UTC()
	}
	rows, err := s.sql.List(ctx, tx, &sql.ListParams{
		Symbol:    filter.Symbol,
		Status:    filter.Status,
		From:      pgtype.Timestamptz{Time: filter.From, Valid: true},
		To:        pgtype.Timestamptz{Time: to, Valid: true},
		RowsLimit: limit,
	})
	if err != nil {
		return nil, err
	}
	out = make([]*models.Position, 0, len(rows))
	for _, r := range rows {
		out = append(out, fromRow(r))
	}
	return out, nil
}

func fromRow(r *sql.Position) *models.Position {
	out := &models.Position{
		ID:         r.ID,
		SignalID:   r.SignalID,
		Symbol:     r.Symbol,
		Side:       models.Direction(r.Side),
		Quantity:   r.Quantity,
		EntryPrice: r.EntryPrice,
		StopLoss:   r.StopLoss,
		TakeProfit: r.TakeProfit,
		OrderID:    r.OrderID,
		Status:     models.PositionStatus(r.Status),
		OpenedAt:   r.OpenedAt.Time,
	}
	if r.ExitPrice.Valid {
		v := r.ExitPrice.Float64
		out.ExitPrice = &v
	}
	if r.RealizedPnl.Valid {
		v := r.RealizedPnl.Float64
		out.RealizedPnL = &v
	}
	if r.ClosedAt.Valid {
		t := r.ClosedAt.Time
		out.ClosedAt = &t
	}
	return out
}
