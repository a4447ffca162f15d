package models

import "time"

// Snapshot — наблюдение по одной паре/токену на момент сбора. Живёт один тик,
// в базу не пишется.
type Snapshot struct {
	Symbol       string
	Name         string
	TokenAddress string
	PriceUSD     float64
	MarketCapUSD float64
	LiquidityUSD float64
	Volume24hUSD float64
	Memecoin     bool // по лейблам пары у источника
	ObservedAt   time.Time
}
