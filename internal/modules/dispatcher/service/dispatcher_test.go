package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"alpha_bot/internal/models"
	"alpha_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeNotifier struct {
	failures int // сколько первых Send падают
	sends    int
	sent     []string
}

func (f *fakeNotifier) Send(_ context.Context, msg string) error {
	f.sends++
	if f.sends <= f.failures {
		return errors.New("transport down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeNotifier) Sendf(ctx context.Context, format string, args ...any) error {
	return f.Send(ctx, fmt.Sprintf(format, args...))
}

type fakeStore struct {
	pending  []*models.Signal
	sentSyms map[string]bool
	marked   map[int64]models.DeliveryStatus
}

func newFakeStore(pending ...*models.Signal) *fakeStore {
	return &fakeStore{
		pending:  pending,
		sentSyms: map[string]bool{},
		marked:   map[int64]models.DeliveryStatus{},
	}
}

func (f *fakeStore) PendingDelivery(_ context.Context) ([]*models.Signal, error) {
	return f.pending, nil
}

func (f *fakeStore) SentForSymbolWithin(_ context.Context, symbol string, _ time.Duration) (bool, error) {
	return f.sentSyms[symbol], nil
}

func (f *fakeStore) MarkDelivery(_ context.Context, id int64, status models.DeliveryStatus) error {
	f.marked[id] = status
	return nil
}

func admittedSignal(id int64, symbol string) *models.Signal {
	return &models.Signal{
		ID:             id,
		Symbol:         symbol,
		Direction:      models.DirectionBuy,
		Confidence:     0.8,
		RiskReward:     2.0,
		Outcome:        models.OutcomeAdmitted,
		DeliveryStatus: models.DeliveryPending,
	}
}

func testDispatcher(n *fakeNotifier, store SignalStore) *Dispatcher {
	d := NewDispatcher(n, store)
	d.backoff = time.Millisecond
	return d
}

func TestDeliverRetriesThenSends(t *testing.T) {
	n := &fakeNotifier{failures: 2}
	store := newFakeStore()
	d := testDispatcher(n, store)

	sig := admittedSignal(1, "AAA")
	if got := d.Deliver(context.Background(), sig); got != models.DeliverySent {
		t.Fatalf("status = %s, want sent", got)
	}
	if n.sends != 3 {
		t.Errorf("sends = %d, want 3 (two failures then success)", n.sends)
	}
	if store.marked[1] != models.DeliverySent {
		t.Errorf("persisted status = %s, want sent", store.marked[1])
	}
}

func TestDeliverExhaustsAttempts(t *testing.T) {
	n := &fakeNotifier{failures: 100}
	store := newFakeStore()
	d := testDispatcher(n, store)

	sig := admittedSignal(1, "AAA")
	if got := d.Deliver(context.Background(), sig); got != models.DeliveryFailed {
		t.Fatalf("status = %s, want failed", got)
	}
	if n.sends != defaultAttempts {
		t.Errorf("sends = %d, want %d", n.sends, defaultAttempts)
	}
	if store.marked[1] != models.DeliveryFailed {
		t.Errorf("persisted status = %s, want failed", store.marked[1])
	}
}

func TestDispatchPendingFailureDoesNotBlockOthers(t *testing.T) {
	// у первого сигнала транспорт падает все попытки, второй и третий уходят
	n := &failFirstNotifier{failSymbol: "СИГНАЛ AAA"}
	store := newFakeStore(
		admittedSignal(1, "AAA"),
		admittedSignal(2, "BBB"),
		admittedSignal(3, "CCC"),
	)
	d := testDispatcher(&fakeNotifier{}, store)
	d.notifier = n

	if err := d.DispatchPending(context.Background()); err != nil {
		t.Fatalf("DispatchPending: %v", err)
	}
	if store.marked[1] != models.DeliveryFailed {
		t.Errorf("signal 1 = %s, want failed", store.marked[1])
	}
	if store.marked[2] != models.DeliverySent || store.marked[3] != models.DeliverySent {
		t.Errorf("signals 2,3 = %s,%s, want sent,sent", store.marked[2], store.marked[3])
	}
}

type failFirstNotifier struct {
	failSymbol string
}

func (f *failFirstNotifier) Send(_ context.Context, msg string) error {
	if strings.Contains(msg, f.failSymbol) {
		return errors.New("transport down")
	}
	return nil
}

func (f *failFirstNotifier) Sendf(ctx context.Context, format string, args ...any) error {
	return f.Send(ctx, fmt.Sprintf(format, args...))
}

func TestDeliverAlreadySentIsNoop(t *testing.T) {
	n := &fakeNotifier{}
	store := newFakeStore()
	d := testDispatcher(n, store)

	sig := admittedSignal(1, "AAA")
	sig.DeliveryStatus = models.DeliverySent

	if got := d.Deliver(context.Background(), sig); got != models.DeliverySent {
		t.Fatalf("status = %s, want sent", got)
	}
	if n.sends != 0 {
		t.Errorf("sends = %d, want 0 (idempotent redelivery)", n.sends)
	}
}

func TestDeliverRejectedIsNoop(t *testing.T) {
	n := &fakeNotifier{}
	d := testDispatcher(n, newFakeStore())

	sig := admittedSignal(1, "AAA")
	sig.Outcome = models.OutcomeRejected
	sig.Reason = models.ReasonLowConfidence

	d.Deliver(context.Background(), sig)
	if n.sends != 0 {
		t.Errorf("sends = %d, want 0 for rejected signal", n.sends)
	}
}

func TestDeliverHeldByCooldown(t *testing.T) {
	n := &fakeNotifier{}
	store := newFakeStore()
	store.sentSyms["AAA"] = true
	d := testDispatcher(n, store)

	sig := admittedSignal(1, "AAA")
	if got := d.Deliver(context.Background(), sig); got != models.DeliveryPending {
		t.Fatalf("status = %s, want pending (held by cooldown)", got)
	}
	if n.sends != 0 {
		t.Errorf("sends = %d, want 0", n.sends)
	}
	if _, marked := store.marked[1]; marked {
		t.Error("held signal must stay pending in store")
	}
}
