package service

import (
	"os"
	"testing"

	"alpha_bot/internal/models"
	"alpha_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func draft(symbol string, confidence, rr float64) *models.SignalDraft {
	return &models.SignalDraft{
		Snapshot:   models.Snapshot{Symbol: symbol},
		Direction:  models.DirectionBuy,
		Confidence: confidence,
		RiskReward: rr,
	}
}

func outcomes(sigs []*models.Signal) map[string]*models.Signal {
	m := make(map[string]*models.Signal, len(sigs))
	for _, s := range sigs {
		m[s.Symbol] = s
	}
	return m
}

func TestAdmitQuotaFavorsConfidence(t *testing.T) {
	// A 0.9, B 0.7, C 0.6 при пороге 0.65: C режется по уверенности,
	// квота достаётся самым уверенным из оставшихся
	drafts := []*models.SignalDraft{
		draft("B", 0.7, 2.0),
		draft("A", 0.9, 2.0),
		draft("C", 0.6, 2.0),
	}

	tests := []struct {
		name         string
		maxPerDay    int
		wantAdmitted []string
	}{
		{"quota 2 admits A and B", 2, []string{"A", "B"}},
		{"quota 1 admits only A", 1, []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultSettings()
			cfg.Analysis.MaxSignalsPerDay = tt.maxPerDay

			out := outcomes(NewController().Admit(drafts, cfg, 0))
			if len(out) != len(drafts) {
				t.Fatalf("got %d signals, want one per draft", len(out))
			}

			admitted := map[string]bool{}
			for sym, sig := range out {
				if sig.Admitted() {
					admitted[sym] = true
				}
			}
			if len(admitted) != len(tt.wantAdmitted) {
				t.Fatalf("admitted %v, want %v", admitted, tt.wantAdmitted)
			}
			for _, sym := range tt.wantAdmitted {
				if !admitted[sym] {
					t.Errorf("%s not admitted", sym)
				}
			}

			if out["C"].Reason != models.ReasonLowConfidence {
				t.Errorf("C reason = %q, want low_confidence", out["C"].Reason)
			}
		})
	}
}

func TestAdmitRuleOrder(t *testing.T) {
	meme := draft("PEPE", 0.9, 2.0)
	meme.Snapshot.Memecoin = true

	tests := []struct {
		name   string
		mutate func(*models.Settings)
		draft  *models.SignalDraft
		want   models.ReasonCode
	}{
		{
			"low confidence wins over low rr",
			func(_ *models.Settings) {},
			draft("AAA", 0.5, 0.5),
			models.ReasonLowConfidence,
		},
		{
			"low risk reward",
			func(_ *models.Settings) {},
			draft("BBB", 0.9, 1.0),
			models.ReasonLowRiskReward,
		},
		{
			"memecoin excluded",
			func(cfg *models.Settings) { cfg.Analysis.IncludeMemecoins = false },
			meme,
			models.ReasonMemecoinExcluded,
		},
		{
			"unsupported symbol with auto trading",
			func(cfg *models.Settings) {
				cfg.Trading.EnableAutoTrading = true
				cfg.Trading.TradeAmountUSDT = 10
				cfg.Trading.UnsupportedSymbols = []string{"XYZ"}
			},
			draft("XYZ", 0.9, 2.0),
			models.ReasonUnsupportedSymbol,
		},
		{
			"quota exhausted",
			func(cfg *models.Settings) { cfg.Analysis.MaxSignalsPerDay = 0 },
			draft("DDD", 0.9, 2.0),
			models.ReasonQuotaExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := models.DefaultSettings()
			tt.mutate(cfg)

			out := NewController().Admit([]*models.SignalDraft{tt.draft}, cfg, 0)
			if len(out) != 1 {
				t.Fatalf("got %d signals, want 1", len(out))
			}
			if out[0].Outcome != models.OutcomeRejected || out[0].Reason != tt.want {
				t.Errorf("outcome %s/%s, want rejected/%s", out[0].Outcome, out[0].Reason, tt.want)
			}
		})
	}
}

func TestAdmitUnsupportedIsAdvisoryWithoutAutoTrading(t *testing.T) {
	cfg := models.DefaultSettings()
	cfg.Trading.UnsupportedSymbols = []string{"XYZ"}

	out := NewController().Admit([]*models.SignalDraft{draft("XYZ", 0.9, 2.0)}, cfg, 0)
	if !out[0].Admitted() {
		t.Errorf("without auto trading the denylist must not reject, got %s/%s", out[0].Outcome, out[0].Reason)
	}
}

func TestAdmitRunningQuotaAcrossBatch(t *testing.T) {
	// лимит 3, два уже допущено сегодня: из батча проходит ровно один
	cfg := models.DefaultSettings()
	cfg.Analysis.MaxSignalsPerDay = 3

	out := NewController().Admit([]*models.SignalDraft{
		draft("A", 0.9, 2.0),
		draft("B", 0.8, 2.0),
		draft("C", 0.7, 2.0),
	}, cfg, 2)

	admitted := 0
	quotaRejected := 0
	for _, sig := range out {
		if sig.Admitted() {
			admitted++
		} else if sig.Reason == models.ReasonQuotaExceeded {
			quotaRejected++
		}
	}
	if admitted != 1 || quotaRejected != 2 {
		t.Errorf("admitted=%d quota_rejected=%d, want 1 and 2", admitted, quotaRejected)
	}
	for _, sig := range out {
		if sig.Admitted() && sig.Symbol != "A" {
			t.Errorf("quota slot went to %s, want the most confident A", sig.Symbol)
		}
	}
}

func TestAdmitEveryDraftPersisted(t *testing.T) {
	cfg := models.DefaultSettings()
	out := NewController().Admit([]*models.SignalDraft{
		draft("A", 0.9, 2.0),
		draft("B", 0.1, 2.0),
	}, cfg, 0)

	if len(out) != 2 {
		t.Fatalf("got %d signals, want 2 (rejected stays visible)", len(out))
	}
	for _, sig := range out {
		if sig.DeliveryStatus != models.DeliveryPending {
			t.Errorf("%s delivery status = %s, want pending", sig.Symbol, sig.DeliveryStatus)
		}
	}
}
