package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alpha_bot/internal/models"
	"alpha_bot/internal/notify"
	"alpha_bot/pkg/logger"
)

const (
	defaultAttempts = 3
	defaultBackoff  = time.Second
	// повторный сигнал по тому же символу не шлём, пока не пройдёт окно
	symbolCooldown = 48 * time.Hour
)

// SignalStore — то, что диспатчеру нужно от стора: очередь недоставленных и
// мутация статуса доставки. Статус доставки — единственное поле сигнала,
// которое диспатчер трогает.
type SignalStore interface {
	PendingDelivery(ctx context.Context) ([]*models.Signal, error)
	SentForSymbolWithin(ctx context.Context, symbol string, window time.Duration) (bool, error)
	MarkDelivery(ctx context.Context, id int64, status models.DeliveryStatus) error
}

// Dispatcher доставляет допущенные сигналы в канал уведомлений: at-least-once
// попытка с ограниченным бэкоффом, идемпотентность по статусу sent.
type Dispatcher struct {
	notifier notify.Notifier
	store    SignalStore
	attempts int
	backoff  time.Duration
	cooldown time.Duration
}

func NewDispatcher(notifier notify.Notifier, store SignalStore) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		store:    store,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		cooldown: symbolCooldown,
	}
}

// DispatchPending разгребает очередь недоставленных, включая зависшие с
// прошлых тиков. Неудача по одному сигналу не блокирует остальные.
func (d *Dispatcher) DispatchPending(ctx context.Context) error {
	pending, err := d.store.PendingDelivery(ctx)
	if err != nil {
		return fmt.Errorf("Dispatcher.DispatchPending: %w", err)
	}
	for _, sig := range pending {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.Deliver(ctx, sig)
	}
	return nil
}

// Deliver — одна доставка. Возвращаемый статус — итог для этого тика:
// sent, failed либо pending (придержан кулдауном по символу).
func (d *Dispatcher) Deliver(ctx context.Context, sig *models.Signal) models.DeliveryStatus {
	// повторный вызов по уже отправленному — no-op, внешних send не будет
	if sig.DeliveryStatus == models.DeliverySent {
		return models.DeliverySent
	}
	if !sig.Admitted() {
		return sig.DeliveryStatus
	}

	held, err := d.store.SentForSymbolWithin(ctx, sig.Symbol, d.cooldown)
	if err != nil {
		logger.Error("dispatcher: cooldown check %s: %v", sig.Symbol, err)
		return sig.DeliveryStatus
	}
	if held {
		logger.Info("dispatcher: %s held, signal for symbol sent within %s", sig.Symbol, d.cooldown)
		return models.DeliveryPending
	}

	text := FormatSignal(sig)
	for attempt := 1; attempt <= d.attempts; attempt++ {
		err = d.notifier.Send(ctx, text)
		if err == nil {
			if mErr := d.store.MarkDelivery(ctx, sig.ID, models.DeliverySent); mErr != nil {
				logger.Error("dispatcher: mark sent %d: %v", sig.ID, mErr)
			}
			sig.DeliveryStatus = models.DeliverySent
			return models.DeliverySent
		}
		logger.Warn("dispatcher: send %s attempt %d/%d: %v", sig.Symbol, attempt, d.attempts, err)
		if attempt < d.attempts {
			select {
			case <-ctx.Done():
				return sig.DeliveryStatus
			case <-time.After(d.backoff << (attempt - 1)):
			}
		}
	}

	if mErr := d.store.MarkDelivery(ctx, sig.ID, models.DeliveryFailed); mErr != nil {
		logger.Error("dispatcher: mark failed %d: %v", sig.ID, mErr)
	}
	sig.DeliveryStatus = models.DeliveryFailed
	logger.Warn("dispatcher: %s delivery failed after %d attempts", sig.Symbol, d.attempts)
	return models.DeliveryFailed
}

func FormatSignal(sig *models.Signal) string {
	emoji := "🟢"
	if sig.Direction == models.DirectionSell {
		emoji = "🔴"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s СИГНАЛ %s %s\n", emoji, sig.Symbol, sig.Direction)
	fmt.Fprintf(&b, "Вход: %.6f–%.6f\n", sig.EntryMin, sig.EntryMax)
	fmt.Fprintf(&b, "SL: %.6f | TP: %.6f\n", sig.StopLoss, sig.TakeProfit)
	fmt.Fprintf(&b, "Уверенность: %.0f%% | R/R: %.2f\n", sig.Confidence*100, sig.RiskReward)
	if sig.Rationale != "" {
		fmt.Fprintf(&b, "💬 %s\n", sig.Rationale)
	}
	if sig.HistoricalAnalog != "" {
		fmt.Fprintf(&b, "📜 Аналог: %s\n", sig.HistoricalAnalog)
	}
	return b.String()
}
