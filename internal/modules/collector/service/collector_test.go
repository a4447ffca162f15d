package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"alpha_bot/internal/exchange"
	"alpha_bot/internal/models"
	"alpha_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeSource struct {
	pairs []exchange.DexPair
	err   error
}

func (f *fakeSource) TokenPairs(_ context.Context, _ string, _ int) ([]exchange.DexPair, error) {
	return f.pairs, f.err
}

func pair(symbol, price string, mcap, liq float64) exchange.DexPair {
	p := exchange.DexPair{
		BaseToken: exchange.DexToken{
			Address: "0x" + symbol,
			Name:    symbol,
			Symbol:  symbol,
		},
		PriceUsd:  price,
		MarketCap: mcap,
	}
	p.Liquidity.Usd = liq
	return p
}

func TestCollectEligibility(t *testing.T) {
	cfg := models.DefaultSettings()

	tests := []struct {
		name string
		pair exchange.DexPair
		want bool
	}{
		{"passes all thresholds", pair("AAA", "1.50", 2_000_000, 50_000), true},
		{"market cap too small", pair("BBB", "1.50", 500_000, 50_000), false},
		{"price too small", pair("CCC", "0.0001", 2_000_000, 50_000), false},
		{"liquidity too small", pair("DDD", "1.50", 2_000_000, 500), false},
		{"empty symbol", pair("", "1.50", 2_000_000, 50_000), false},
		{"unparsable price", pair("EEE", "n/a", 2_000_000, 50_000), false},
		{"zero price", pair("FFF", "0", 2_000_000, 50_000), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(&fakeSource{pairs: []exchange.DexPair{tt.pair}}, "ethereum", 100)
			out, err := c.Collect(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Collect: %v", err)
			}
			if got := len(out) == 1; got != tt.want {
				t.Errorf("eligible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectStablecoinBand(t *testing.T) {
	cfg := models.DefaultSettings()

	tests := []struct {
		name string
		pair exchange.DexPair
		want bool
	}{
		// депегнутый стейбл не должен пройти, даже если пороги пригодности
		// он формально проходит
		{"depegged USDC", pair("USDC", "0.001", 40_000_000_000, 90_000_000), false},
		{"USDT above band", pair("USDT", "12.0", 90_000_000_000, 90_000_000), false},
		{"USDT inside band", pair("USDT", "1.0", 90_000_000_000, 90_000_000), true},
		{"non-stable at same price", pair("AAA", "0.001", 40_000_000_000, 90_000_000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(&fakeSource{pairs: []exchange.DexPair{tt.pair}}, "ethereum", 100)
			out, err := c.Collect(context.Background(), cfg)
			if err != nil {
				t.Fatalf("Collect: %v", err)
			}
			if got := len(out) == 1; got != tt.want {
				t.Errorf("eligible = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollectDedupeKeepsFreshest(t *testing.T) {
	older := pair("AAA", "1.00", 2_000_000, 50_000)
	older.UpdatedAt = 1_700_000_000_000
	newer := pair("AAA", "2.00", 3_000_000, 60_000)
	newer.UpdatedAt = 1_700_000_100_000

	c := NewCollector(&fakeSource{pairs: []exchange.DexPair{older, newer}}, "ethereum", 100)
	out, err := c.Collect(context.Background(), models.DefaultSettings())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(out))
	}
	if out[0].PriceUSD != 2.00 {
		t.Errorf("kept price %.2f, want the freshest observation 2.00", out[0].PriceUSD)
	}
}

func TestCollectMemecoinLabel(t *testing.T) {
	p := pair("DOGE2", "1.00", 2_000_000, 50_000)
	p.Labels = []string{"v2", "MEME"}

	c := NewCollector(&fakeSource{pairs: []exchange.DexPair{p}}, "ethereum", 100)
	out, err := c.Collect(context.Background(), models.DefaultSettings())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(out) != 1 || !out[0].Memecoin {
		t.Errorf("expected one memecoin snapshot, got %+v", out)
	}
}

func TestCollectFetchErrorIsTransient(t *testing.T) {
	c := NewCollector(&fakeSource{err: errors.New("boom")}, "ethereum", 100)
	_, err := c.Collect(context.Background(), models.DefaultSettings())
	if err == nil {
		t.Fatal("expected error")
	}
	if !models.IsTransient(err) {
		t.Errorf("expected transient error, got %T: %v", err, err)
	}
}
