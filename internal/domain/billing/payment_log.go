package billing

import (
	"context"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentLog appends payment audit rows. The unique index on
// transaction_id plus ON CONFLICT DO NOTHING keeps replays to one row.
type GormPaymentLog struct {
	db *gorm.DB
}

func NewGormPaymentLog(db *gorm.DB) *GormPaymentLog {
	return &GormPaymentLog{db: db}
}

func (l *GormPaymentLog) Append(ctx context.Context, p Payment) error {
	return l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(&p).Error
}

// InMemoryPaymentLog is the test double for GormPaymentLog with the same
// replay behaviour.
type InMemoryPaymentLog struct {
	mu   sync.Mutex
	rows []Payment
	seen map[string]bool
}

func NewInMemoryPaymentLog() *InMemoryPaymentLog {
	return &InMemoryPaymentLog{seen: make(map[string]bool)}
}

func (l *InMemoryPaymentLog) Append(_ context.Context, p Payment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seen[p.TransactionID] {
		return nil
	}
	l.seen[p.TransactionID] = true
	p.ID = uint(len(l.rows) + 1)
	l.rows = append(l.rows, p)
	return nil
}

func (l *InMemoryPaymentLog) Rows() []Payment {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Payment(nil), l.rows...)
}
