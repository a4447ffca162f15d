package service

import (
	"testing"

	"alpha_bot/internal/models"
)

func TestNewStoreStartsWithDefaults(t *testing.T) {
	s := NewStore(nil)
	cfg := s.Snapshot()
	if cfg == nil {
		t.Fatal("nil snapshot")
	}
	if cfg.Analysis.MaxSignalsPerDay != 10 || cfg.Analysis.MinSignalConfidence != 0.65 {
		t.Errorf("unexpected defaults: %+v", cfg.Analysis)
	}
	if cfg.Trading.EnableAutoTrading {
		t.Error("auto trading must be off by default")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Settings)
		ok     bool
	}{
		{"defaults are valid", func(_ *models.Settings) {}, true},
		{"zero interval", func(s *models.Settings) { s.Analysis.CollectionIntervalMinutes = 0 }, false},
		{"confidence above one", func(s *models.Settings) { s.Analysis.MinSignalConfidence = 1.5 }, false},
		{"negative confidence", func(s *models.Settings) { s.Analysis.MinSignalConfidence = -0.1 }, false},
		{"zero quota is allowed", func(s *models.Settings) { s.Analysis.MaxSignalsPerDay = 0 }, true},
		{"negative quota", func(s *models.Settings) { s.Analysis.MaxSignalsPerDay = -1 }, false},
		{"negative risk reward", func(s *models.Settings) { s.Analysis.MinRiskReward = -1 }, false},
		{"negative threshold", func(s *models.Settings) { s.DataCollection.MinLiquidityUSD = -5 }, false},
		{"inverted stablecoin band", func(s *models.Settings) {
			s.DataCollection.StablecoinMinPrice = 5
			s.DataCollection.StablecoinMaxPrice = 1
		}, false},
		{"auto trading without amount", func(s *models.Settings) {
			s.Trading.EnableAutoTrading = true
			s.Trading.TradeAmountUSDT = 0
		}, false},
		{"auto trading with amount", func(s *models.Settings) {
			s.Trading.EnableAutoTrading = true
			s.Trading.TradeAmountUSDT = 25
		}, true},
		{"negative min take profit", func(s *models.Settings) { s.Trading.MinTakeProfitPercent = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultSettings()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.ok && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateNil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("expected error for nil settings")
	}
}

func TestStablecoinLookupIsCaseInsensitive(t *testing.T) {
	cfg := models.DefaultSettings()
	if !cfg.DataCollection.IsStablecoin("usdt") {
		t.Error("usdt must match USDT")
	}
	if cfg.DataCollection.IsStablecoin("BTC") {
		t.Error("BTC is not a stablecoin")
	}
}
