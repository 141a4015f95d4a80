package catalog

import "time"

// Title is owned and mutated by the catalog service. This backend only
// reads it: resolver input, payment amount, watch routing.
type Title struct {
	ID          uint   `gorm:"primaryKey"`
	Slug        string `gorm:"not null;uniqueIndex:idx_titles_slug"`
	Name        string `gorm:"not null"`
	Price       string `gorm:"not null;default:'0'"`
	PaymentCode string `gorm:"column:payment_code;type:varchar(4)"` // "PT" | "DO" | "DV" | ""

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Title) Policy() PaymentPolicy {
	return PolicyFromCode(t.PaymentCode)
}
