package service

import (
	"context"
	"math"
	"strings"
	"sync"

	"alpha_bot/internal/models"
	"alpha_bot/pkg/logger"
)

// Scorer нормализует ответы движка в драфты сигналов. Любая проблема с одним
// снапшотом — *models.SkipError, батч не прерывается.
type Scorer struct {
	engine  Engine
	workers int
}

func NewScorer(engine Engine, workers int) *Scorer {
	if workers <= 0 {
		workers = 4
	}
	return &Scorer{engine: engine, workers: workers}
}

// Score — один снапшот в один драфт.
func (s *Scorer) Score(ctx context.Context, snap models.Snapshot, cfg *models.Settings) (*models.SignalDraft, error) {
	res, err := s.engine.Score(ctx, snap)
	if err != nil {
		return nil, models.Skip(snap.Symbol, "engine: "+err.Error())
	}
	if res.Error != "" {
		return nil, models.Skip(snap.Symbol, "engine declined: "+res.Error)
	}

	if res.Confidence == nil {
		return nil, models.Skip(snap.Symbol, "confidence missing")
	}
	conf := *res.Confidence
	if math.IsNaN(conf) || math.IsInf(conf, 0) {
		return nil, models.Skip(snap.Symbol, "confidence is not a number")
	}
	// Вне [0,1] — отбрасываем, не клампим: 1.7 — это баг выше по течению,
	// а не "очень уверенный" сигнал.
	if conf < 0 || conf > 1 {
		return nil, models.Skip(snap.Symbol, "confidence out of range")
	}

	direction, ok := normalizeDirection(res.Direction)
	if !ok {
		return nil, models.Skip(snap.Symbol, "direction missing or unknown")
	}

	entryMin, entryMax := res.EntryMin, res.EntryMax
	if entryMin <= 0 && entryMax <= 0 {
		entryMin, entryMax = snap.PriceUSD, snap.PriceUSD
	} else if entryMax <= 0 {
		entryMax = entryMin
	}

	rr, err := riskReward(res, direction, (entryMin+entryMax)/2)
	if err != nil {
		return nil, models.Skip(snap.Symbol, err.Error())
	}

	return &models.SignalDraft{
		Snapshot:         snap,
		Direction:        direction,
		Confidence:       conf,
		RiskReward:       rr,
		EntryMin:         entryMin,
		EntryMax:         entryMax,
		StopLoss:         res.StopLoss,
		TakeProfit:       res.TakeProfit,
		Rationale:        res.Rationale,
		HistoricalAnalog: res.HistoricalAnalog,
	}, nil
}

// ScoreAll скорит кандидатов пулом воркеров. Кандидаты разных символов не
// делят состояния, поэтому параллелить безопасно.
func (s *Scorer) ScoreAll(ctx context.Context, snaps []models.Snapshot, cfg *models.Settings) []*models.SignalDraft {
	type result struct {
		draft *models.SignalDraft
		err   error
	}

	jobs := make(chan models.Snapshot)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for snap := range jobs {
				draft, err := s.Score(ctx, snap, cfg)
				results <- result{draft: draft, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, snap := range snaps {
			select {
			case <-ctx.Done():
				return
			case jobs <- snap:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	drafts := make([]*models.SignalDraft, 0, len(snaps))
	skipped := 0
	for r := range results {
		if r.err != nil {
			skipped++
			logger.Info("scorer: %v", r.err)
			continue
		}
		drafts = append(drafts, r.draft)
	}

	logger.Info("scorer: %d candidates -> %d drafts (skipped=%d)", len(snaps), len(drafts), skipped)
	return drafts
}

func normalizeDirection(raw string) (models.Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "LONG", "BUY_ON_DIP":
		return models.DirectionBuy, true
	case "SELL", "SHORT":
		return models.DirectionSell, true
	default:
		return "", false
	}
}

// riskReward берёт ratio движка, а при его отсутствии выводит из SL/TP вокруг
// середины входной зоны.
func riskReward(res *EngineResult, direction models.Direction, entryMid float64) (float64, error) {
	if res.RiskReward != nil {
		rr := *res.RiskReward
		if math.IsNaN(rr) || math.IsInf(rr, 0) || rr < 0 {
			return 0, &invalidField{"risk_reward is invalid"}
		}
		return rr, nil
	}

	if res.StopLoss <= 0 || res.TakeProfit <= 0 || entryMid <= 0 {
		return 0, &invalidField{"risk_reward missing and cannot be derived"}
	}

	var risk, reward float64
	if direction == models.DirectionBuy {
		risk = entryMid - res.StopLoss
		reward = res.TakeProfit - entryMid
	} else {
		risk = res.StopLoss - entryMid
		reward = entryMid - res.TakeProfit
	}
	if risk <= 0 || reward <= 0 {
		return 0, &invalidField{"stop/target inconsistent with entry"}
	}
	return reward / risk, nil
}

type invalidField struct{ msg string }

func (e *invalidField) Error() string { return e.msg }
