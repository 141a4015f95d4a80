package billing

import (
	"time"

	"streaming-app/internal/domain/catalog"
	"streaming-app/internal/domain/users"
)

// Payment is the durable audit row written when an attempt settles.
// TransactionID is unique so a replayed settlement cannot append twice.
type Payment struct {
	ID            uint   `gorm:"primaryKey"`
	TransactionID string `gorm:"column:transaction_id;not null;uniqueIndex:idx_payments_transaction_id"`
	UserID        uint   `gorm:"not null;index"`
	User          users.User
	TitleID       uint `gorm:"not null"`
	Title         catalog.Title
	Amount        string `gorm:"not null"`
	Currency      string `gorm:"type:varchar(3);not null"`
	Status        string `gorm:"not null"` // "granted"
	CreatedAt     time.Time
}
