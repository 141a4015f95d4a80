package billing

import "time"

// ReconciliationCase records a paid-but-unentitled attempt: the gateway
// approved the charge but the entitlement write failed. These are never
// retried automatically; an operator (or an async worker reading the
// reconciliation queue) resolves them.
type ReconciliationCase struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID string `gorm:"column:transaction_id;not null;uniqueIndex:idx_reconciliation_transaction_id"`
	UserID        uint   `gorm:"not null"`
	TitleID       uint   `gorm:"not null"`
	Amount        string `gorm:"not null"`
	Reason        string `gorm:"not null"`
	Resolved      bool   `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
