package payment

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// Gateway obtains the hosted-form authorization token for one attempt.
// Merchant code and public key are adapter configuration.
type Gateway interface {
	Authorize(ctx context.Context, transactionID, amount, currency string) (token string, err error)
}

// Recorder durably records a settled payment. It must be idempotent per
// transaction ID and per (user, title) pair.
type Recorder interface {
	Record(ctx context.Context, transactionID string, userID, titleID uint, amount string) (granted bool, err error)
}

// ReconciliationEvent describes a paid-but-unentitled attempt.
type ReconciliationEvent struct {
	TransactionID string `json:"transaction_id"`
	UserID        uint   `json:"user_id"`
	TitleID       uint   `json:"title_id"`
	Amount        string `json:"amount"`
	Reason        string `json:"reason"`
}

// Reconciler receives settlement failures for manual or async follow-up.
// It must never re-run the settlement itself.
type Reconciler interface {
	Flag(ctx context.Context, ev ReconciliationEvent) error
}

// Orchestrator drives one purchase attempt from session creation through
// the gateway callback to settlement. Attempts are held in memory
// between the session request and the callback, keyed by transaction ID;
// the locker keeps a second concurrent attempt for the same (user,
// title) pair from ever reaching the gateway.
type Orchestrator struct {
	gateway    Gateway
	recorder   Recorder
	locker     AttemptLocker
	reconciler Reconciler
	currency   string

	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewOrchestrator(gateway Gateway, recorder Recorder, locker AttemptLocker, reconciler Reconciler, currency string) *Orchestrator {
	return &Orchestrator{
		gateway:    gateway,
		recorder:   recorder,
		locker:     locker,
		reconciler: reconciler,
		currency:   currency,
		attempts:   make(map[string]*Attempt),
	}
}

// Begin starts a purchase attempt for (user, title) and runs it up to
// the form hand-off: transaction ID, gateway token, form open. A token
// failure terminates the attempt; it is not retried automatically.
func (o *Orchestrator) Begin(ctx context.Context, userID, titleID uint, price string) (Attempt, error) {
	amount, err := FormatAmount(price)
	if err != nil {
		return Attempt{}, err
	}

	ok, err := o.locker.Acquire(ctx, userID, titleID)
	if err != nil {
		return Attempt{}, fmt.Errorf("acquire attempt lock user=%d title=%d: %w", userID, titleID, err)
	}
	if !ok {
		return Attempt{}, ErrAlreadyInProgress
	}

	a := &Attempt{
		TransactionID: NewTransactionID(),
		UserID:        userID,
		TitleID:       titleID,
		Amount:        amount,
		Currency:      o.currency,
		State:         StateRequesting,
		StartedAt:     time.Now(),
	}

	o.mu.Lock()
	o.attempts[a.TransactionID] = a
	o.mu.Unlock()

	token, err := o.gateway.Authorize(ctx, a.TransactionID, a.Amount, a.Currency)
	if err != nil {
		log.Printf("token request failed tx=%s user=%d title=%d: %v", a.TransactionID, userID, titleID, err)
		final := o.finish(ctx, a, StateFailed, ReasonTokenError)
		return final, fmt.Errorf("tx=%s: %w", a.TransactionID, ErrTokenError)
	}

	o.mu.Lock()
	a.Token = token
	a.State = StateTokenObtained
	// The hosted form is rendered client-side with this token; from the
	// orchestrator's view the hand-off happens as soon as Begin returns.
	a.State = StateFormOpen
	cp := *a
	o.mu.Unlock()

	return cp, nil
}

// Complete consumes the gateway callback for an attempt. Approved means
// settle then grant; any other code is a decline. Only an attempt in
// form_open owned by userID can be completed, so a replayed callback
// cannot settle twice.
func (o *Orchestrator) Complete(ctx context.Context, userID uint, transactionID, code string) (Attempt, error) {
	o.mu.Lock()
	a, ok := o.attempts[transactionID]
	if !ok || a.UserID != userID || a.State != StateFormOpen {
		o.mu.Unlock()
		return Attempt{}, ErrUnknownAttempt
	}
	a.State = StateCallbackReceived
	o.mu.Unlock()

	if code != CodeApproved {
		final := o.finish(ctx, a, StateFailed, ReasonDeclined)
		return final, ErrDeclined
	}

	o.mu.Lock()
	a.State = StateSettling
	o.mu.Unlock()

	granted, err := o.recorder.Record(ctx, a.TransactionID, a.UserID, a.TitleID, a.Amount)
	if err != nil || !granted {
		// Payment captured, entitlement missing. Flag for reconciliation;
		// a blind retry here could double-charge.
		log.Printf("RECONCILE: settlement failed tx=%s user=%d title=%d amount=%s: %v",
			a.TransactionID, a.UserID, a.TitleID, a.Amount, err)
		if ferr := o.reconciler.Flag(ctx, ReconciliationEvent{
			TransactionID: a.TransactionID,
			UserID:        a.UserID,
			TitleID:       a.TitleID,
			Amount:        a.Amount,
			Reason:        string(ReasonSettlementError),
		}); ferr != nil {
			log.Printf("reconciliation flag failed tx=%s: %v", a.TransactionID, ferr)
		}
		final := o.finish(ctx, a, StateFailed, ReasonSettlementError)
		return final, fmt.Errorf("tx=%s: %w", a.TransactionID, ErrSettlementError)
	}

	final := o.finish(ctx, a, StateGranted, "")
	return final, nil
}

// Abandon drops an attempt whose form was opened but never called back,
// typically because the user navigated away. No settlement runs and no
// entitlement is granted.
func (o *Orchestrator) Abandon(ctx context.Context, userID uint, transactionID string) error {
	o.mu.Lock()
	a, ok := o.attempts[transactionID]
	if !ok || a.UserID != userID || a.State != StateFormOpen {
		o.mu.Unlock()
		return ErrUnknownAttempt
	}
	delete(o.attempts, transactionID)
	o.mu.Unlock()

	if err := o.locker.Release(ctx, a.UserID, a.TitleID); err != nil {
		log.Printf("lock release failed user=%d title=%d: %v", a.UserID, a.TitleID, err)
	}
	return nil
}

// Lookup returns a snapshot of a live attempt.
func (o *Orchestrator) Lookup(transactionID string) (Attempt, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	a, ok := o.attempts[transactionID]
	if !ok {
		return Attempt{}, false
	}
	return *a, true
}

func (o *Orchestrator) finish(ctx context.Context, a *Attempt, state State, reason FailureReason) Attempt {
	o.mu.Lock()
	a.State = state
	a.Reason = reason
	cp := *a
	delete(o.attempts, a.TransactionID)
	o.mu.Unlock()

	if err := o.locker.Release(ctx, a.UserID, a.TitleID); err != nil {
		log.Printf("lock release failed user=%d title=%d: %v", a.UserID, a.TitleID, err)
	}
	return cp
}
