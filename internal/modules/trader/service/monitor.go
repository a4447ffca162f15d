package service

import (
	"context"
	"strings"
	"time"

	"alpha_bot/internal/exchange"
	"alpha_bot/internal/models"
	settingssvc "alpha_bot/internal/modules/settings/service"
	"alpha_bot/pkg/logger"
)

const (
	monitorIdleSleep = 30 * time.Second
	// поток живёт не дольше минуты: так подхватываем новые позиции без
	// отдельной сигнализации между трекером и монитором
	monitorStreamTTL = time.Minute
)

// PriceSource — поток цен по пачке символов.
type PriceSource interface {
	StreamPrices(ctx context.Context, symbols []string) <-chan exchange.PriceTick
}

// Monitor следит за открытыми позициями по miniTicker-потоку и закрывает их
// по стопу или тейку.
type Monitor struct {
	tracker  *Tracker
	store    PositionStore
	settings *settingssvc.Store
	prices   PriceSource
}

func NewMonitor(tracker *Tracker, store PositionStore, settings *settingssvc.Store, prices PriceSource) *Monitor {
	return &Monitor{
		tracker:  tracker,
		store:    store,
		settings: settings,
		prices:   prices,
	}
}

// Run — цикл до отмены контекста. Ошибки листинга и закрытий не фатальны,
// следующая итерация попробует снова.
func (m *Monitor) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		open, err := m.store.ListOpen(ctx)
		if err != nil {
			logger.Error("monitor: list open positions: %v", err)
			sleep(ctx, monitorIdleSleep)
			continue
		}
		if len(open) == 0 {
			sleep(ctx, monitorIdleSleep)
			continue
		}

		symbols := make([]string, 0, len(open))
		for _, p := range open {
			symbols = append(symbols, p.Symbol+"USDT")
		}

		streamCtx, cancel := context.WithTimeout(ctx, monitorStreamTTL)
		for tick := range m.prices.StreamPrices(streamCtx, symbols) {
			m.onTick(ctx, tick)
		}
		cancel()
	}
}

func (m *Monitor) onTick(ctx context.Context, tick exchange.PriceTick) {
	symbol := strings.TrimSuffix(tick.Symbol, "USDT")
	pos, err := m.store.GetOpenBySymbol(ctx, symbol)
	if err != nil {
		logger.Error("monitor: lookup %s: %v", symbol, err)
		return
	}
	if pos == nil {
		return
	}

	cfg := m.settings.Snapshot()
	switch {
	case pos.StopLoss > 0 && tick.Price <= pos.StopLoss:
		logger.Warn("monitor: %s hit stop loss at %.6f", pos.Symbol, tick.Price)
		m.close(ctx, pos, tick.Price, models.CloseStopLoss, cfg)
	case pos.TakeProfit > 0 && tick.Price >= pos.TakeProfit:
		gainPct := (tick.Price - pos.EntryPrice) / pos.EntryPrice * 100
		if gainPct < cfg.Trading.MinTakeProfitPercent {
			// цена дошла до цели, но прибыль ниже порога — держим дальше
			return
		}
		logger.Info("monitor: %s hit take profit at %.6f (+%.2f%%)", pos.Symbol, tick.Price, gainPct)
		m.close(ctx, pos, tick.Price, models.CloseTakeProfit, cfg)
	}
}

func (m *Monitor) close(ctx context.Context, pos *models.Position, price float64, cause models.CloseCause, cfg *models.Settings) {
	if err := m.tracker.Close(ctx, pos, price, cause, cfg); err != nil {
		logger.Error("monitor: close %s (%s): %v", pos.Symbol, cause, err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
