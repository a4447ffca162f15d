package runner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	healthsvc "alpha_bot/internal/modules/health/service"
	"alpha_bot/pkg/logger"

	"alpha_bot/internal/models"

	"github.com/opentracing/opentracing-go"
)

// Контракты стадий — ровно то, что оркестратору нужно от каждого модуля.
type (
	SettingsSource interface {
		Snapshot() *models.Settings
	}
	Collector interface {
		Collect(ctx context.Context, cfg *models.Settings) ([]models.Snapshot, error)
	}
	Scorer interface {
		ScoreAll(ctx context.Context, snaps []models.Snapshot, cfg *models.Settings) []*models.SignalDraft
	}
	Admitter interface {
		Admit(drafts []*models.SignalDraft, cfg *models.Settings, quotaUsed int64) []*models.Signal
	}
	SignalStore interface {
		CountAdmittedToday(ctx context.Context) (int64, error)
		InsertBatch(ctx context.Context, batch []*models.Signal) error
	}
	Dispatcher interface {
		DispatchPending(ctx context.Context) error
	}
	Trader interface {
		Open(ctx context.Context, sig *models.Signal, cfg *models.Settings) (*models.Position, error)
	}
)

// Orchestrator гоняет пайплайн тиками: сбор → скоринг → допуск → запись →
// доставка → авто-трейд. Тики не перекрываются: пока один идёт, следующий
// пропускается, а не встаёт в очередь.
type Orchestrator struct {
	settings   SettingsSource
	collector  Collector
	scorer     Scorer
	admission  Admitter
	signals    SignalStore
	dispatcher Dispatcher
	tracker    Trader
	health     *healthsvc.State

	running atomic.Bool
}

func NewOrchestrator(
	settings SettingsSource,
	collector Collector,
	scorer Scorer,
	admission Admitter,
	signals SignalStore,
	dispatcher Dispatcher,
	tracker Trader,
	health *healthsvc.State,
) *Orchestrator {
	return &Orchestrator{
		settings:   settings,
		collector:  collector,
		scorer:     scorer,
		admission:  admission,
		signals:    signals,
		dispatcher: dispatcher,
		tracker:    tracker,
		health:     health,
	}
}

// Run — цикл до отмены контекста. Первый тик сразу, дальше по интервалу;
// интервал перечитывается из настроек на каждой итерации.
func (o *Orchestrator) Run(ctx context.Context) {
	o.health.SetReady(true)
	defer o.health.SetReady(false)

	for {
		if err := o.RunNow(ctx); err != nil {
			logger.Error("runner: tick: %v", err)
		}

		interval := o.settings.Snapshot().CollectionInterval()
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
	}
}

// RunNow — один тик. При уже идущем тике — no-op: ручной запуск из API не
// должен наслаиваться на плановый.
func (o *Orchestrator) RunNow(ctx context.Context) error {
	if !o.running.CompareAndSwap(false, true) {
		logger.Warn("runner: tick already running, skip")
		return nil
	}
	defer o.running.Store(false)

	o.health.SetTickRunning(true)
	defer o.health.SetTickRunning(false)

	err := o.tick(ctx)
	o.health.TouchTick(time.Now().UTC())
	return err
}

func (o *Orchestrator) tick(ctx context.Context) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.tick")
	defer span.Finish()

	started := time.Now()
	cfg := o.settings.Snapshot()

	snaps, err := o.stageCollect(ctx, cfg)
	if err != nil {
		// транзиент источника кончает тик, но не процесс
		return fmt.Errorf("collect: %w", err)
	}
	if len(snaps) == 0 {
		logger.Info("runner: no eligible snapshots, tick done")
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	drafts := o.stageScore(ctx, cfg, snaps)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	batch, err := o.stageAdmit(ctx, cfg, drafts)
	if err != nil {
		return fmt.Errorf("admit: %w", err)
	}

	// запись строго до доставки
	if err = o.signals.InsertBatch(ctx, batch); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err = o.stageDispatch(ctx); err != nil {
		logger.Error("runner: dispatch: %v", err)
	}

	o.stageTrade(ctx, cfg, batch)

	admitted := 0
	for _, sig := range batch {
		if sig.Admitted() {
			admitted++
		}
	}
	logger.Info("runner: tick done in %s: %d snapshots, %d drafts, %d admitted",
		time.Since(started).Round(time.Millisecond), len(snaps), len(drafts), admitted)
	return nil
}

func (o *Orchestrator) stageCollect(ctx context.Context, cfg *models.Settings) ([]models.Snapshot, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.collect")
	defer span.Finish()
	return o.collector.Collect(ctx, cfg)
}

func (o *Orchestrator) stageScore(ctx context.Context, cfg *models.Settings, snaps []models.Snapshot) []*models.SignalDraft {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.score")
	defer span.Finish()
	return o.scorer.ScoreAll(ctx, snaps, cfg)
}

func (o *Orchestrator) stageAdmit(ctx context.Context, cfg *models.Settings, drafts []*models.SignalDraft) ([]*models.Signal, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.admit")
	defer span.Finish()

	quotaUsed, err := o.signals.CountAdmittedToday(ctx)
	if err != nil {
		return nil, err
	}
	return o.admission.Admit(drafts, cfg, quotaUsed), nil
}

func (o *Orchestrator) stageDispatch(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.dispatch")
	defer span.Finish()
	return o.dispatcher.DispatchPending(ctx)
}

// stageTrade открывает позиции по допущенным сигналам. Каждый отказ — только
// этого сигнала: инвариант (дубль открытой позиции) логируем громко, транзиент
// биржи — обычной ошибкой.
func (o *Orchestrator) stageTrade(ctx context.Context, cfg *models.Settings, batch []*models.Signal) {
	if !cfg.Trading.EnableAutoTrading {
		return
	}
	span, ctx := opentracing.StartSpanFromContext(ctx, "pipeline.trade")
	defer span.Finish()

	for _, sig := range batch {
		if !sig.Admitted() {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if _, err := o.tracker.Open(ctx, sig, cfg); err != nil {
			if models.IsInvariant(err) {
				logger.Error("runner: INVARIANT %s: %v", sig.Symbol, err)
				continue
			}
			logger.Error("runner: open %s: %v", sig.Symbol, err)
		}
	}
}
