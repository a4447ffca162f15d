package service

import (
	"sort"

	"alpha_bot/internal/models"
	"alpha_bot/pkg/logger"
)

// Controller — политика допуска. Чистая функция над драфтами: никакого I/O,
// persist делает вызывающий. Отказ по правилу — не ошибка, а нормальный
// исход, он остаётся видимым в истории с кодом причины.
type Controller struct{}

func NewController() *Controller {
	return &Controller{}
}

// Admit оценивает драфты в порядке убывания уверенности (при исчерпании
// квоты выигрывают самые уверенные) и возвращает persist-ready сигналы:
// и допущенные, и отклонённые с причиной. Правила применяются по порядку,
// короткое замыкание на первом сработавшем.
//
// quotaUsed — сколько сигналов уже допущено за текущие UTC-сутки до этого
// тика; внутри батча квота считается бегущим счётчиком, чтобы один жирный
// батч не пробил дневной лимит.
func (c *Controller) Admit(drafts []*models.SignalDraft, cfg *models.Settings, quotaUsed int64) []*models.Signal {
	ordered := make([]*models.SignalDraft, len(drafts))
	copy(ordered, drafts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	admitted := int64(0)
	out := make([]*models.Signal, 0, len(ordered))

	for _, draft := range ordered {
		reason := c.check(draft, cfg, quotaUsed+admitted)
		sig := fromDraft(draft)
		if reason == "" {
			sig.Outcome = models.OutcomeAdmitted
			admitted++
		} else {
			sig.Outcome = models.OutcomeRejected
			sig.Reason = reason
		}
		out = append(out, sig)
	}

	logger.Info("admission: %d drafts -> %d admitted (quota used %d/%d)",
		len(drafts), admitted, quotaUsed+admitted, cfg.Analysis.MaxSignalsPerDay)
	return out
}

func (c *Controller) check(draft *models.SignalDraft, cfg *models.Settings, used int64) models.ReasonCode {
	a := &cfg.Analysis

	if draft.Confidence < a.MinSignalConfidence {
		return models.ReasonLowConfidence
	}
	if draft.RiskReward < a.MinRiskReward {
		return models.ReasonLowRiskReward
	}
	if !a.IncludeMemecoins && draft.Snapshot.Memecoin {
		return models.ReasonMemecoinExcluded
	}
	// денилист торговой секции действует, когда допуск повлёк бы авто-трейд
	if cfg.Trading.EnableAutoTrading && cfg.Trading.IsUnsupported(draft.Snapshot.Symbol) {
		return models.ReasonUnsupportedSymbol
	}
	if used >= int64(a.MaxSignalsPerDay) {
		return models.ReasonQuotaExceeded
	}
	return ""
}

func fromDraft(d *models.SignalDraft) *models.Signal {
	return &models.Signal{
		Symbol:           d.Snapshot.Symbol,
		Direction:        d.Direction,
		Confidence:       d.Confidence,
		RiskReward:       d.RiskReward,
		EntryMin:         d.EntryMin,
		EntryMax:         d.EntryMax,
		StopLoss:         d.StopLoss,
		TakeProfit:       d.TakeProfit,
		Rationale:        d.Rationale,
		HistoricalAnalog: d.HistoricalAnalog,
		DeliveryStatus:   models.DeliveryPending,
	}
}
