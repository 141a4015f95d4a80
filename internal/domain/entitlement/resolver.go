package entitlement

import (
	"context"
	"errors"
	"fmt"

	"streaming-app/internal/domain/catalog"
)

type Reason string

const (
	ReasonFree            Reason = "free"
	ReasonOwned           Reason = "owned"
	ReasonPaymentRequired Reason = "payment_required"
	ReasonUnauthenticated Reason = "unauthenticated"
)

// Verdict is the resolver's answer to "can this user watch this title
// right now". Policy tells the caller how to route a denied request:
// sign-in for unauthenticated, the payment flow for payment_required.
type Verdict struct {
	Allowed bool                  `json:"allowed"`
	Reason  Reason                `json:"reason"`
	Policy  catalog.PaymentPolicy `json:"policy"`
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve decides playback access for (user, title). userID zero means
// unauthenticated; it short-circuits before any store lookup.
func (r *Resolver) Resolve(ctx context.Context, userID uint, title catalog.Title) (Verdict, error) {
	policy := title.Policy()

	if !policy.Paid() {
		return Verdict{Allowed: true, Reason: ReasonFree, Policy: policy}, nil
	}

	if userID == 0 {
		return Verdict{Allowed: false, Reason: ReasonUnauthenticated, Policy: policy}, nil
	}

	_, err := r.store.Get(ctx, userID, title.ID)
	if errors.Is(err, ErrNotFound) {
		return Verdict{Allowed: false, Reason: ReasonPaymentRequired, Policy: policy}, nil
	}
	if err != nil {
		return Verdict{}, fmt.Errorf("entitlement lookup for user=%d title=%d: %w", userID, title.ID, err)
	}

	return Verdict{Allowed: true, Reason: ReasonOwned, Policy: policy}, nil
}
