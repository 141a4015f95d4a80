package payment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	mu    sync.Mutex
	calls int32
	delay time.Duration
	err   error
}

func (g *fakeGateway) Authorize(_ context.Context, transactionID, _, _ string) (string, error) {
	atomic.AddInt32(&g.calls, 1)
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	if g.err != nil {
		return "", g.err
	}
	return "tok-" + transactionID, nil
}

type recordedCall struct {
	transactionID string
	userID        uint
	titleID       uint
	amount        string
}

type fakeRecorder struct {
	mu      sync.Mutex
	calls   []recordedCall
	granted bool
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, transactionID string, userID, titleID uint, amount string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{transactionID, userID, titleID, amount})
	return r.granted, r.err
}

type fakeReconciler struct {
	mu     sync.Mutex
	events []ReconciliationEvent
}

func (f *fakeReconciler) Flag(_ context.Context, ev ReconciliationEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func newTestOrchestrator(gw *fakeGateway, rec *fakeRecorder, rc *fakeReconciler) *Orchestrator {
	return NewOrchestrator(gw, rec, NewMemoryLocker(), rc, "PEN")
}

func TestBeginOpensForm(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10")
	require.NoError(t, err)

	assert.Equal(t, StateFormOpen, a.State)
	assert.Equal(t, "10.00", a.Amount)
	assert.Equal(t, "PEN", a.Currency)
	assert.Equal(t, "tok-"+a.TransactionID, a.Token)
	assert.NotEmpty(t, a.TransactionID)

	live, ok := o.Lookup(a.TransactionID)
	require.True(t, ok)
	assert.Equal(t, StateFormOpen, live.State)
}

func TestApprovedCallbackSettlesAndGrants(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)

	final, err := o.Complete(context.Background(), 1, a.TransactionID, "00")
	require.NoError(t, err)
	assert.Equal(t, StateGranted, final.State)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, a.TransactionID, rec.calls[0].transactionID)
	assert.Equal(t, uint(1), rec.calls[0].userID)
	assert.Equal(t, uint(7), rec.calls[0].titleID)
	assert.Equal(t, "10.00", rec.calls[0].amount)

	_, ok := o.Lookup(a.TransactionID)
	assert.False(t, ok, "terminal attempt is discarded")
}

func TestDeclinedCallbackNeverSettles(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)

	final, err := o.Complete(context.Background(), 1, a.TransactionID, "05")
	require.ErrorIs(t, err, ErrDeclined)
	assert.Equal(t, StateFailed, final.State)
	assert.Equal(t, ReasonDeclined, final.Reason)
	assert.Empty(t, rec.calls, "recorder must not run for a decline")
}

func TestTokenErrorTerminatesAttempt(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.ErrorIs(t, err, ErrTokenError)
	assert.Equal(t, StateFailed, a.State)
	assert.Equal(t, ReasonTokenError, a.Reason)

	// The pair is free again; the failed attempt was not retried.
	gw.err = nil
	_, err = o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&gw.calls))
}

func TestSettlementFailureFlagsReconciliation(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: false, err: errors.New("backend down")}
	rc := &fakeReconciler{}
	o := newTestOrchestrator(gw, rec, rc)

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)

	final, err := o.Complete(context.Background(), 1, a.TransactionID, "00")
	require.ErrorIs(t, err, ErrSettlementError)
	assert.Equal(t, StateFailed, final.State)
	assert.Equal(t, ReasonSettlementError, final.Reason)

	// Exactly one settlement call, no automatic retry.
	assert.Len(t, rec.calls, 1)

	require.Len(t, rc.events, 1)
	assert.Equal(t, a.TransactionID, rc.events[0].TransactionID)
	assert.Equal(t, "10.00", rc.events[0].Amount)
	assert.Equal(t, string(ReasonSettlementError), rc.events[0].Reason)
}

func TestConcurrentBeginsForSamePairCoalesce(t *testing.T) {
	gw := &fakeGateway{delay: 30 * time.Millisecond}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := o.Begin(context.Background(), 1, 7, "10.00")
			errs <- err
		}()
	}

	var rejected, accepted int
	for i := 0; i < 2; i++ {
		switch err := <-errs; {
		case err == nil:
			accepted++
		case errors.Is(err, ErrAlreadyInProgress):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int32(1), atomic.LoadInt32(&gw.calls), "only one token request may be issued")
}

func TestSecondBeginRejectedWhileFormOpen(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	_, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)

	_, err = o.Begin(context.Background(), 1, 7, "10.00")
	assert.ErrorIs(t, err, ErrAlreadyInProgress)

	// Different pairs proceed independently.
	_, err = o.Begin(context.Background(), 2, 7, "10.00")
	assert.NoError(t, err)
	_, err = o.Begin(context.Background(), 1, 8, "10.00")
	assert.NoError(t, err)
}

func TestReplayedCallbackSettlesOnce(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), 1, a.TransactionID, "00")
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), 1, a.TransactionID, "00")
	require.ErrorIs(t, err, ErrUnknownAttempt)
	assert.Len(t, rec.calls, 1)
}

func TestCallbackFromWrongUserRejected(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), 2, a.TransactionID, "00")
	require.ErrorIs(t, err, ErrUnknownAttempt)
	assert.Empty(t, rec.calls)
}

func TestAbandonDropsAttemptWithoutSettling(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)

	require.NoError(t, o.Abandon(context.Background(), 1, a.TransactionID))

	_, err = o.Complete(context.Background(), 1, a.TransactionID, "00")
	require.ErrorIs(t, err, ErrUnknownAttempt)
	assert.Empty(t, rec.calls, "abandoned attempt must never settle")

	// The pair is free for a fresh attempt.
	_, err = o.Begin(context.Background(), 1, 7, "10.00")
	assert.NoError(t, err)
}

func TestFreshAttemptAfterDecline(t *testing.T) {
	gw := &fakeGateway{}
	rec := &fakeRecorder{granted: true}
	o := newTestOrchestrator(gw, rec, &fakeReconciler{})

	a, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)
	_, err = o.Complete(context.Background(), 1, a.TransactionID, "05")
	require.ErrorIs(t, err, ErrDeclined)

	b, err := o.Begin(context.Background(), 1, 7, "10.00")
	require.NoError(t, err)
	assert.NotEqual(t, a.TransactionID, b.TransactionID, "transaction ids are never reused")
}

func TestBeginRejectsInvalidPrice(t *testing.T) {
	o := newTestOrchestrator(&fakeGateway{}, &fakeRecorder{granted: true}, &fakeReconciler{})

	_, err := o.Begin(context.Background(), 1, 7, "not-a-price")
	require.Error(t, err)

	// The bad request must not leave the pair locked.
	_, err = o.Begin(context.Background(), 1, 7, "10.00")
	assert.NoError(t, err)
}
