package runner

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"alpha_bot/internal/models"
	healthsvc "alpha_bot/internal/modules/health/service"
	"alpha_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// callLog фиксирует порядок стадий одного тика.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeSettings struct{ cfg *models.Settings }

func (f *fakeSettings) Snapshot() *models.Settings { return f.cfg }

type fakeCollector struct {
	log   *callLog
	snaps []models.Snapshot
	err   error
	gate  chan struct{} // если не nil, Collect блокируется до закрытия
}

func (f *fakeCollector) Collect(ctx context.Context, _ *models.Settings) ([]models.Snapshot, error) {
	f.log.add("collect")
	if f.gate != nil {
		<-f.gate
	}
	return f.snaps, f.err
}

type fakeScorer struct{ log *callLog }

func (f *fakeScorer) ScoreAll(_ context.Context, snaps []models.Snapshot, _ *models.Settings) []*models.SignalDraft {
	f.log.add("score")
	out := make([]*models.SignalDraft, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, &models.SignalDraft{
			Snapshot:   s,
			Direction:  models.DirectionBuy,
			Confidence: 0.9,
			RiskReward: 2.0,
		})
	}
	return out
}

type fakeAdmitter struct{ log *callLog }

func (f *fakeAdmitter) Admit(drafts []*models.SignalDraft, _ *models.Settings, _ int64) []*models.Signal {
	f.log.add("admit")
	out := make([]*models.Signal, 0, len(drafts))
	for i, d := range drafts {
		out = append(out, &models.Signal{
			ID:             int64(i + 1),
			Symbol:         d.Snapshot.Symbol,
			Direction:      d.Direction,
			Confidence:     d.Confidence,
			Outcome:        models.OutcomeAdmitted,
			DeliveryStatus: models.DeliveryPending,
		})
	}
	return out
}

type fakeSignalStore struct {
	log      *callLog
	inserted []*models.Signal
}

func (f *fakeSignalStore) CountAdmittedToday(_ context.Context) (int64, error) { return 0, nil }

func (f *fakeSignalStore) InsertBatch(_ context.Context, batch []*models.Signal) error {
	f.log.add("persist")
	f.inserted = append(f.inserted, batch...)
	return nil
}

type fakeDispatcher struct{ log *callLog }

func (f *fakeDispatcher) DispatchPending(_ context.Context) error {
	f.log.add("dispatch")
	return nil
}

type fakeTrader struct {
	log    *callLog
	opened []string
}

func (f *fakeTrader) Open(_ context.Context, sig *models.Signal, _ *models.Settings) (*models.Position, error) {
	f.log.add("trade")
	f.opened = append(f.opened, sig.Symbol)
	return &models.Position{ID: 1, Symbol: sig.Symbol}, nil
}

func newTestOrchestrator(cfg *models.Settings, log *callLog, collector Collector) (*Orchestrator, *fakeSignalStore, *fakeTrader) {
	store := &fakeSignalStore{log: log}
	trader := &fakeTrader{log: log}
	o := NewOrchestrator(
		&fakeSettings{cfg: cfg},
		collector,
		&fakeScorer{log: log},
		&fakeAdmitter{log: log},
		store,
		&fakeDispatcher{log: log},
		trader,
		healthsvc.NewState(),
	)
	return o, store, trader
}

func TestRunNowStageOrder(t *testing.T) {
	cfg := models.DefaultSettings()
	cfg.Trading.EnableAutoTrading = true
	cfg.Trading.TradeAmountUSDT = 10

	log := &callLog{}
	o, store, trader := newTestOrchestrator(cfg, log, &fakeCollector{
		log:   log,
		snaps: []models.Snapshot{{Symbol: "AAA", PriceUSD: 1}},
	})

	if err := o.RunNow(context.Background()); err != nil {
		t.Fatalf("RunNow: %v", err)
	}

	want := []string{"collect", "score", "admit", "persist", "dispatch", "trade"}
	got := log.list()
	if len(got) != len(want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stage %d = %s, want %s (persist must precede dispatch)", i, got[i], want[i])
		}
	}
	if len(store.inserted) != 1 || len(trader.opened) != 1 {
		t.Errorf("inserted=%d opened=%d, want 1 and 1", len(store.inserted), len(trader.opened))
	}
}

func TestRunNowCollectFailureEndsTick(t *testing.T) {
	log := &callLog{}
	o, store, _ := newTestOrchestrator(models.DefaultSettings(), log, &fakeCollector{
		log: log,
		err: models.Transient("fetch", errors.New("dex down")),
	})

	if err := o.RunNow(context.Background()); err == nil {
		t.Fatal("expected error from failed collect")
	}
	for _, stage := range log.list() {
		if stage != "collect" {
			t.Errorf("stage %s ran after failed collect", stage)
		}
	}
	if len(store.inserted) != 0 {
		t.Error("nothing must be persisted on a failed tick")
	}
}

func TestRunNowNoAutoTradeWhenDisabled(t *testing.T) {
	log := &callLog{}
	o, _, trader := newTestOrchestrator(models.DefaultSettings(), log, &fakeCollector{
		log:   log,
		snaps: []models.Snapshot{{Symbol: "AAA", PriceUSD: 1}},
	})

	if err := o.RunNow(context.Background()); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if len(trader.opened) != 0 {
		t.Errorf("opened %v with auto trading disabled", trader.opened)
	}
}

func TestRunNowSkipsOverlappingTick(t *testing.T) {
	log := &callLog{}
	gate := make(chan struct{})
	o, _, _ := newTestOrchestrator(models.DefaultSettings(), log, &fakeCollector{
		log:  log,
		gate: gate,
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = o.RunNow(context.Background())
	}()

	// дождаться, пока первый тик повиснет в сборе
	for len(log.list()) == 0 {
		time.Sleep(time.Millisecond)
	}

	if err := o.RunNow(context.Background()); err != nil {
		t.Fatalf("overlapping RunNow: %v", err)
	}
	if calls := log.list(); len(calls) != 1 {
		t.Errorf("overlapping tick ran stages: %v", calls)
	}

	close(gate)
	<-done
}
