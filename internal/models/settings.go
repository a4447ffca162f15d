package models

import (
	"strings"
	"time"
)

// Settings — пользовательская конфигурация пайплайна. Три секции, как в
// /api/settings. Значение иммутабельно: Replace в settings-сторе всегда
// кладёт целиком новую структуру, стадии работают со снапшотом на тик.
type Settings struct {
	Analysis       AnalysisSettings       `json:"analysis"`
	DataCollection DataCollectionSettings `json:"data_collection"`
	Trading        TradingSettings        `json:"trading"`
}

type AnalysisSettings struct {
	CollectionIntervalMinutes int     `json:"collection_interval_minutes"`
	MinSignalConfidence       float64 `json:"min_signal_confidence"`
	MaxSignalsPerDay          int     `json:"max_signals_per_day"`
	MinRiskReward             float64 `json:"min_risk_reward"`
	IncludeMemecoins          bool    `json:"include_memecoins"`
}

type DataCollectionSettings struct {
	MinMarketCapUSD    float64  `json:"min_market_cap_usd"`
	MinTokenPriceUSD   float64  `json:"min_token_price_usd"`
	MinLiquidityUSD    float64  `json:"min_liquidity_usd"`
	Stablecoins        []string `json:"stablecoins"`
	StablecoinMinPrice float64  `json:"stablecoin_min_price"`
	StablecoinMaxPrice float64  `json:"stablecoin_max_price"`
}

type TradingSettings struct {
	EnableAutoTrading    bool     `json:"enable_auto_trading"`
	TradeAmountUSDT      float64  `json:"trade_amount_usdt"`
	MinTakeProfitPercent float64  `json:"min_take_profit_percent"`
	UnsupportedSymbols   []string `json:"unsupported_symbols"`
}

func DefaultSettings() *Settings {
	return &Settings{
		Analysis: AnalysisSettings{
			CollectionIntervalMinutes: 30,
			MinSignalConfidence:       0.65,
			MaxSignalsPerDay:          10,
			MinRiskReward:             1.5,
			IncludeMemecoins:          true,
		},
		DataCollection: DataCollectionSettings{
			MinMarketCapUSD:    1_000_000,
			MinTokenPriceUSD:   0.001,
			MinLiquidityUSD:    1000,
			Stablecoins:        []string{"USDT", "USDC", "BUSD", "DAI", "USDP"},
			StablecoinMinPrice: 0.1,
			StablecoinMaxPrice: 10.0,
		},
		Trading: TradingSettings{
			EnableAutoTrading:    false,
			TradeAmountUSDT:      10.0,
			MinTakeProfitPercent: 1.0,
			UnsupportedSymbols:   nil,
		},
	}
}

func (s *Settings) CollectionInterval() time.Duration {
	m := s.Analysis.CollectionIntervalMinutes
	if m <= 0 {
		m = 30
	}
	return time.Duration(m) * time.Minute
}

func (d *DataCollectionSettings) IsStablecoin(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	for _, s := range d.Stablecoins {
		if strings.ToUpper(strings.TrimSpace(s)) == symbol {
			return true
		}
	}
	return false
}

func (t *TradingSettings) IsUnsupported(symbol string) bool {
	symbol = strings.ToUpper(symbol)
	for _, s := range t.UnsupportedSymbols {
		if strings.ToUpper(strings.TrimSpace(s)) == symbol {
			return true
		}
	}
	return false
}
