package payment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTransactionID returns the idempotency key for one purchase attempt:
// a UTC timestamp prefix for log correlation plus a random suffix for
// uniqueness across concurrent callers.
func NewTransactionID() string {
	ts := time.Now().UTC().Format("20060102150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return ts + suffix
}
