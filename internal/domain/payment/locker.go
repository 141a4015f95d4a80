package payment

import (
	"context"
	"sync"
)

// AttemptLocker serializes purchase attempts per (user, title): Acquire
// returns false while another attempt for the same pair is in flight.
type AttemptLocker interface {
	Acquire(ctx context.Context, userID, titleID uint) (bool, error)
	Release(ctx context.Context, userID, titleID uint) error
}

type lockKey struct {
	userID  uint
	titleID uint
}

// MemoryLocker is the single-instance locker. A Redis-backed locker
// replaces it when the backend runs more than one replica.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[lockKey]bool
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[lockKey]bool)}
}

func (l *MemoryLocker) Acquire(_ context.Context, userID, titleID uint) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := lockKey{userID, titleID}
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, userID, titleID uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, lockKey{userID, titleID})
	return nil
}
