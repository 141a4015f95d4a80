package entitlement

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("entitlement not found")

// Store is the durable entitlement record. Upsert must be idempotent on
// (UserID, TitleID): a second write for the same pair leaves exactly one
// row and still reports the entitlement as granted.
type Store interface {
	Get(ctx context.Context, userID, titleID uint) (*Entitlement, error)
	Upsert(ctx context.Context, e *Entitlement) (granted bool, err error)
	ListByUser(ctx context.Context, userID uint) ([]Entitlement, error)
}
