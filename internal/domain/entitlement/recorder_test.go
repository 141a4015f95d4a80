package entitlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streaming-app/internal/domain/billing"
)

func TestRecorderGrantsAndLogsPayment(t *testing.T) {
	store := NewInMemoryStore()
	payments := billing.NewInMemoryPaymentLog()
	rec := NewSettlementRecorder(store, payments, "PEN")

	granted, err := rec.Record(context.Background(), "tx-1", 1, 7, "10.00")
	require.NoError(t, err)
	assert.True(t, granted)

	e, err := store.Get(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, "tx-1", e.TransactionID)
	assert.Equal(t, "10.00", e.Amount)

	rows := payments.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "tx-1", rows[0].TransactionID)
	assert.Equal(t, "PEN", rows[0].Currency)
	assert.Equal(t, "granted", rows[0].Status)
}

func TestRecorderIdempotentPerTransaction(t *testing.T) {
	store := NewInMemoryStore()
	payments := billing.NewInMemoryPaymentLog()
	rec := NewSettlementRecorder(store, payments, "PEN")

	// A retried network request replays the same transaction ID; the
	// entitlement state must match a single call.
	for i := 0; i < 2; i++ {
		granted, err := rec.Record(context.Background(), "tx-1", 1, 7, "10.00")
		require.NoError(t, err)
		assert.True(t, granted)
	}

	rows, err := store.ListByUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "no duplicate entitlement row")
	assert.Len(t, payments.Rows(), 1, "no double amount in the audit log")
}
