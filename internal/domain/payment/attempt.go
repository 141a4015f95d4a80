package payment

import (
	"errors"
	"time"
)

// State of one purchase attempt. Granted and Failed are terminal; a new
// purchase starts a fresh attempt from idle.
type State string

const (
	StateIdle             State = "idle"
	StateRequesting       State = "requesting"
	StateTokenObtained    State = "token_obtained"
	StateFormOpen         State = "form_open"
	StateCallbackReceived State = "callback_received"
	StateSettling         State = "settling"
	StateGranted          State = "granted"
	StateFailed           State = "failed"
)

type FailureReason string

const (
	ReasonTokenError      FailureReason = "token_error"
	ReasonDeclined        FailureReason = "declined"
	ReasonSettlementError FailureReason = "settlement_error"
)

var (
	ErrAlreadyInProgress = errors.New("payment attempt already in progress for this title")
	ErrUnknownAttempt    = errors.New("unknown or finished payment attempt")
	ErrTokenError        = errors.New("payment gateway token request failed")
	ErrDeclined          = errors.New("payment declined or cancelled")
	ErrSettlementError   = errors.New("payment captured but entitlement not recorded")
)

// CodeApproved is the gateway callback code meaning the charge went
// through. Every other code is a decline or a user cancel.
const CodeApproved = "00"

// Attempt is the transient record of one purchase. It lives only for the
// duration of the orchestration and is never reused.
type Attempt struct {
	TransactionID string        `json:"transaction_id"`
	UserID        uint          `json:"user_id"`
	TitleID       uint          `json:"title_id"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Token         string        `json:"-"`
	State         State         `json:"state"`
	Reason        FailureReason `json:"reason,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
}
