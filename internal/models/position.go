package models

import "time"

type PositionStatus string

const (
	PositionOpen   PositionStatus = "OPEN"
	PositionClosed PositionStatus = "CLOSED"
)

// CloseCause — почему закрываем. Закрытие ниже порога тейка допустимо только
// со стоп-лосс/ручной причиной, молча — никогда.
type CloseCause string

const (
	CloseTakeProfit CloseCause = "take_profit"
	CloseStopLoss   CloseCause = "stop_loss"
	CloseManual     CloseCause = "manual"
)

type Position struct {
	ID          int64          `json:"id"`
	SignalID    int64          `json:"signal_id"`
	Symbol      string         `json:"symbol"`
	Side        Direction      `json:"side"`
	Quantity    float64        `json:"quantity"`
	EntryPrice  float64        `json:"entry_price"`
	StopLoss    float64        `json:"stop_loss"`
	TakeProfit  float64        `json:"take_profit"`
	ExitPrice   *float64       `json:"exit_price,omitempty"`
	RealizedPnL *float64       `json:"realized_pnl,omitempty"`
	OrderID     string         `json:"order_id"`
	Status      PositionStatus `json:"status"`
	OpenedAt    time.Time      `json:"opened_at"`
	ClosedAt    *time.Time     `json:"closed_at,omitempty"`
}
