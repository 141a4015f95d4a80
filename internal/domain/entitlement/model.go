package entitlement

import (
	"time"

	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/users"
)

// Entitlement is the durable record that a user may stream a title.
// At most one row exists per (user, title); TransactionID ties the row
// back to the payment attempt that created it.
type Entitlement struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"not null;uniqueIndex:idx_entitlements_user_title"`
	User          users.User
	TitleID       uint `gorm:"not null;uniqueIndex:idx_entitlements_user_title"`
	Title         catalog.Title
	TransactionID string `gorm:"column:transaction_id;not null;uniqueIndex:idx_entitlements_transaction_id"`
	Amount        string `gorm:"not null"`
	PurchasedAt   time.Time
}
