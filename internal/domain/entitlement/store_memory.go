package entitlement

import (
	"context"
	"sync"
	"time"
)

type pairKey struct {
	userID  uint
	titleID uint
}

// InMemoryStore keeps entitlements in a map. Used by tests and by local
// runs without Postgres.
type InMemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[pairKey]*Entitlement
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{rows: make(map[pairKey]*Entitlement)}
}

func (s *InMemoryStore) Get(_ context.Context, userID, titleID uint) (*Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rows[pairKey{userID, titleID}]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *InMemoryStore) Upsert(_ context.Context, e *Entitlement) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{e.UserID, e.TitleID}
	if _, ok := s.rows[key]; ok {
		// Pair already entitled; the duplicate write is a no-op.
		return true, nil
	}

	s.nextID++
	cp := *e
	cp.ID = s.nextID
	if cp.PurchasedAt.IsZero() {
		cp.PurchasedAt = time.Now()
	}
	s.rows[key] = &cp
	return true, nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID uint) ([]Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entitlement
	for key, row := range s.rows {
		if key.userID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}
