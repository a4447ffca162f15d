package service

import (
	"context"
	"fmt"
	"time"

	"alpha_bot/internal/exchange"
	"alpha_bot/internal/models"
	"alpha_bot/pkg/logger"
)

// Exchange — спотовые ордера, которые нужны трекеру.
type Exchange interface {
	PlaceMarketBuy(ctx context.Context, symbol string, quoteOrderQty float64) (*exchange.MexcOrder, error)
	PlaceMarketSell(ctx context.Context, symbol string, quantity float64) (*exchange.MexcOrder, error)
}

// SignalLinker связывает сигнал с открытой по нему позицией.
type SignalLinker interface {
	LinkPosition(ctx context.Context, signalID, positionID int64) error
}

// Tracker открывает и закрывает позиции. Инвариант: не больше одной открытой
// позиции на символ, дубль ловим и здесь, и частичным уникальным индексом в БД.
type Tracker struct {
	store    PositionStore
	exchange Exchange
	signals  SignalLinker
}

func NewTracker(store PositionStore, ex Exchange, signals SignalLinker) *Tracker {
	return &Tracker{
		store:    store,
		exchange: ex,
		signals:  signals,
	}
}

// Open исполняет допущенный сигнал рыночной покупкой на trade_amount_usdt.
// Возвращает (nil, nil), когда сигнал остаётся советом: автотрейдинг выключен,
// символ неторгуемый либо направление не BUY — спот продаёт только то, что купил.
func (t *Tracker) Open(ctx context.Context, sig *models.Signal, cfg *models.Settings) (pos *models.Position, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Tracker.Open: %w", err)
		}
	}()

	if !cfg.Trading.EnableAutoTrading {
		return nil, nil
	}
	if sig.Direction != models.DirectionBuy {
		logger.Info("trader: %s %s stays advisory, spot opens only BUY", sig.Symbol, sig.Direction)
		return nil, nil
	}
	if cfg.Trading.IsUnsupported(sig.Symbol) {
		logger.Info("trader: %s is not tradable, signal stays advisory", sig.Symbol)
		return nil, nil
	}

	existing, err := t.store.GetOpenBySymbol(ctx, sig.Symbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.Invariant("open position for %s already exists (id=%d)", sig.Symbol, existing.ID)
	}

	pair := sig.Symbol + "USDT"
	order, err := t.exchange.PlaceMarketBuy(ctx, pair, cfg.Trading.TradeAmountUSDT)
	if err != nil {
		return nil, models.Transient("trader: market buy "+pair, err)
	}

	entry := order.FillPrice()
	if entry <= 0 {
		entry = sig.EntryMin
	}
	pos = &models.Position{
		SignalID:   sig.ID,
		Symbol:     sig.Symbol,
		Side:       sig.Direction,
		Quantity:   order.Qty(),
		EntryPrice: entry,
		StopLoss:   sig.StopLoss,
		TakeProfit: sig.TakeProfit,
		OrderID:    fmt.Sprintf("%d", order.OrderID),
		Status:     models.PositionOpen,
		OpenedAt:   time.Now().UTC(),
	}
	if err = t.store.Insert(ctx, pos); err != nil {
		return nil, err
	}
	if err = t.signals.LinkPosition(ctx, sig.ID, pos.ID); err != nil {
		return nil, err
	}

	logger.Info("trader: opened %s qty=%.8f entry=%.6f order=%s", pos.Symbol, pos.Quantity, pos.EntryPrice, pos.OrderID)
	return pos, nil
}

// Close продаёт позицию и фиксирует результат. Тейк ниже min_take_profit_percent
// отклоняется: досрочно выйти можно только по стопу или руками.
func (t *Tracker) Close(ctx context.Context, pos *models.Position, exitPrice float64, cause models.CloseCause, cfg *models.Settings) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Tracker.Close: %w", err)
		}
	}()

	if pos.Status != models.PositionOpen {
		return models.Invariant("position %d is not open", pos.ID)
	}
	if exitPrice <= 0 {
		return models.Invariant("position %d: exit price %.6f", pos.ID, exitPrice)
	}

	gainPct := (exitPrice - pos.EntryPrice) / pos.EntryPrice * 100
	if cause == models.CloseTakeProfit && gainPct < cfg.Trading.MinTakeProfitPercent {
		return models.Invariant("position %d: gain %.2f%% below min take profit %.2f%%",
			pos.ID, gainPct, cfg.Trading.MinTakeProfitPercent)
	}

	pair := pos.Symbol + "USDT"
	order, sellErr := t.exchange.PlaceMarketSell(ctx, pair, pos.Quantity)
	if sellErr != nil {
		return models.Transient("trader: market sell "+pair, sellErr)
	}
	if p := order.FillPrice(); p > 0 {
		exitPrice = p
	}

	pnl := (exitPrice - pos.EntryPrice) * pos.Quantity
	closedAt := time.Now().UTC()
	if err = t.store.Close(ctx, pos.ID, exitPrice, pnl, closedAt); err != nil {
		return err
	}

	pos.Status = models.PositionClosed
	pos.ExitPrice = &exitPrice
	pos.RealizedPnL = &pnl
	pos.ClosedAt = &closedAt

	logger.Info("trader: closed %s cause=%s exit=%.6f pnl=%.4f", pos.Symbol, cause, exitPrice, pnl)
	return nil
}
