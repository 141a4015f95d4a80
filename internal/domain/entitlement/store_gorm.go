package entitlement

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists entitlements in Postgres. The composite unique index
// on (user_id, title_id) is the uniqueness invariant; Upsert relies on
// ON CONFLICT DO NOTHING so a replay never creates a second row.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, userID, titleID uint) (*Entitlement, error) {
	var e Entitlement
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND title_id = ?", userID, titleID).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *GormStore) Upsert(ctx context.Context, e *Entitlement) (bool, error) {
	if e.PurchasedAt.IsZero() {
		e.PurchasedAt = time.Now()
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "title_id"}},
			DoNothing: true,
		}).
		Create(e).Error
	if err != nil {
		return false, err
	}
	// Conflict or insert, the row for (user, title) now exists.
	return true, nil
}

func (s *GormStore) ListByUser(ctx context.Context, userID uint) ([]Entitlement, error) {
	var out []Entitlement
	err := s.db.WithContext(ctx).
		Preload("Title").
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
