package entitlement

import (
	"context"
	"fmt"
	"log"
	"time"

	"streaming-app/internal/domain/billing"
)

// PaymentLog appends the durable payment audit row. Append must tolerate
// a replayed transaction ID without writing a second row.
type PaymentLog interface {
	Append(ctx context.Context, p billing.Payment) error
}

// SettlementRecorder durably records a completed payment: the entitlement
// row keyed by (user, title) plus the payment audit row keyed by
// transaction ID. Both writes are idempotent, so a retried settlement
// call yields the same state as a single one.
type SettlementRecorder struct {
	store    Store
	payments PaymentLog
	currency string
}

func NewSettlementRecorder(store Store, payments PaymentLog, currency string) *SettlementRecorder {
	return &SettlementRecorder{store: store, payments: payments, currency: currency}
}

func (r *SettlementRecorder) Record(ctx context.Context, transactionID string, userID, titleID uint, amount string) (bool, error) {
	granted, err := r.store.Upsert(ctx, &Entitlement{
		UserID:        userID,
		TitleID:       titleID,
		TransactionID: transactionID,
		Amount:        amount,
		PurchasedAt:   time.Now(),
	})
	if err != nil {
		return false, fmt.Errorf("record entitlement tx=%s: %w", transactionID, err)
	}
	if !granted {
		return false, nil
	}

	if err := r.payments.Append(ctx, billing.Payment{
		TransactionID: transactionID,
		UserID:        userID,
		TitleID:       titleID,
		Amount:        amount,
		Currency:      r.currency,
		Status:        "granted",
	}); err != nil {
		// The entitlement is already durable; losing the audit row must
		// not fail the attempt or trigger a second charge.
		log.Printf("payment audit append failed tx=%s user=%d title=%d: %v", transactionID, userID, titleID, err)
	}

	return true, nil
}
