package models

import "time"

type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

type DeliveryStatus string

const (
	DeliveryPending DeliveryStatus = "pending"
	DeliverySent    DeliveryStatus = "sent"
	DeliveryFailed  DeliveryStatus = "failed"
)

type AdmissionOutcome string

const (
	OutcomeAdmitted AdmissionOutcome = "admitted"
	OutcomeRejected AdmissionOutcome = "rejected"
)

// ReasonCode — причина отказа в допуске. Пустая строка для допущенных.
type ReasonCode string

const (
	ReasonLowConfidence     ReasonCode = "low_confidence"
	ReasonLowRiskReward     ReasonCode = "low_risk_reward"
	ReasonMemecoinExcluded  ReasonCode = "memecoin_excluded"
	ReasonUnsupportedSymbol ReasonCode = "unsupported_symbol"
	ReasonQuotaExceeded     ReasonCode = "quota_exceeded"
)

// SignalDraft — нормализованный ответ движка по одному снапшоту. Транзиентный:
// до контроллера допуска ничего из этого не персистится.
type SignalDraft struct {
	Snapshot         Snapshot
	Direction        Direction
	Confidence       float64 // [0,1]
	RiskReward       float64
	EntryMin         float64
	EntryMax         float64
	StopLoss         float64
	TakeProfit       float64
	Rationale        string
	HistoricalAnalog string
}

// Signal — персистентная запись решения контроллера допуска. После вставки
// мутируют только delivery_status и position_id.
type Signal struct {
	ID               int64            `json:"id"`
	Symbol           string           `json:"symbol"`
	Direction        Direction        `json:"direction"`
	Confidence       float64          `json:"confidence"`
	RiskReward       float64          `json:"risk_reward"`
	EntryMin         float64          `json:"entry_min"`
	EntryMax         float64          `json:"entry_max"`
	StopLoss         float64          `json:"stop_loss"`
	TakeProfit       float64          `json:"take_profit"`
	Rationale        string           `json:"rationale,omitempty"`
	HistoricalAnalog string           `json:"historical_analog,omitempty"`
	Outcome          AdmissionOutcome `json:"outcome"`
	Reason           ReasonCode       `json:"reason,omitempty"`
	DeliveryStatus   DeliveryStatus   `json:"delivery_status"`
	PositionID       *int64           `json:"position_id,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}

func (s *Signal) Admitted() bool { return s.Outcome == OutcomeAdmitted }

// HistoryFilter — параметры выборки истории для веб-поверхности.
type HistoryFilter struct {
	Symbol string
	Status string // outcome для сигналов, status для позиций
	From   time.Time
	To     time.Time
	Limit  int32
}
