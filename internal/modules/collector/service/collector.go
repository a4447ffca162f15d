package service

import (
	"context"
	"strings"
	"time"

	"alpha_bot/internal/exchange"
	"alpha_bot/internal/models"
	"alpha_bot/pkg/logger"
)

// PairSource — то, что умеет отдать листинг пар. В проде DexScreener-клиент.
type PairSource interface {
	TokenPairs(ctx context.Context, chainID string, limit int) ([]exchange.DexPair, error)
}

// Collector превращает сырой листинг агрегатора в набор кандидатов на тик:
// статические фильтры пригодности, стейблкойн-гард, дедупликация по символу.
type Collector struct {
	source  PairSource
	chainID string
	limit   int
}

func NewCollector(source PairSource, chainID string, limit int) *Collector {
	return &Collector{
		source:  source,
		chainID: chainID,
		limit:   limit,
	}
}

// Collect возвращает кандидатов одного тика. Ошибка фетча целиком —
// транзиентная, тик на ней заканчивается; кривые записи поштучно
// пропускаются и считаются.
func (c *Collector) Collect(ctx context.Context, cfg *models.Settings) ([]models.Snapshot, error) {
	pairs, err := c.source.TokenPairs(ctx, c.chainID, c.limit)
	if err != nil {
		return nil, models.Transient("collector: fetch pairs", err)
	}

	var (
		malformed int
		filtered  int
		depegged  int
	)

	dc := &cfg.DataCollection
	out := make([]models.Snapshot, 0, len(pairs))
	bySymbol := make(map[string]int) // symbol -> index in out

	for _, pair := range pairs {
		symbol := strings.ToUpper(strings.TrimSpace(pair.BaseToken.Symbol))
		if symbol == "" || pair.BaseToken.Address == "" {
			malformed++
			continue
		}
		price, err := pair.Price()
		if err != nil || price <= 0 {
			malformed++
			continue
		}

		// Стейблкойны вне ценового коридора — всегда мимо: депег не
		// должен выглядеть как сигнал.
		if dc.IsStablecoin(symbol) &&
			(price < dc.StablecoinMinPrice || price > dc.StablecoinMaxPrice) {
			depegged++
			continue
		}

		if pair.EffectiveMarketCap() < dc.MinMarketCapUSD ||
			price < dc.MinTokenPriceUSD ||
			pair.Liquidity.Usd < dc.MinLiquidityUSD {
			filtered++
			continue
		}

		snap := models.Snapshot{
			Symbol:       symbol,
			Name:         pair.BaseToken.Name,
			TokenAddress: pair.BaseToken.Address,
			PriceUSD:     price,
			MarketCapUSD: pair.EffectiveMarketCap(),
			LiquidityUSD: pair.Liquidity.Usd,
			Volume24hUSD: pair.Volume.H24,
			Memecoin:     isMemecoin(pair.Labels),
			ObservedAt:   observedAt(&pair),
		}

		// дубликаты символа в одном тике: оставляем самое свежее наблюдение
		if idx, ok := bySymbol[symbol]; ok {
			if snap.ObservedAt.After(out[idx].ObservedAt) {
				out[idx] = snap
			}
			continue
		}
		bySymbol[symbol] = len(out)
		out = append(out, snap)
	}

	logger.Info("collector: %d pairs -> %d candidates (malformed=%d filtered=%d depegged=%d)",
		len(pairs), len(out), malformed, filtered, depegged)
	return out, nil
}

func isMemecoin(labels []string) bool {
	for _, l := range labels {
		if strings.Contains(strings.ToLower(l), "meme") {
			return true
		}
	}
	return false
}

func observedAt(pair *exchange.DexPair) time.Time {
	if pair.UpdatedAt > 0 {
		return time.UnixMilli(pair.UpdatedAt)
	}
	if pair.PairCreatedAt > 0 {
		return time.UnixMilli(pair.PairCreatedAt)
	}
	return time.Now().UTC()
}
