package entitlement

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streaming-app/internal/domain/catalog"
)

type countingStore struct {
	*InMemoryStore
	gets int
}

func (s *countingStore) Get(ctx context.Context, userID, titleID uint) (*Entitlement, error) {
	s.gets++
	return s.InMemoryStore.Get(ctx, userID, titleID)
}

func newCountingStore() *countingStore {
	return &countingStore{InMemoryStore: NewInMemoryStore()}
}

func TestResolveFreeTitleAllowedForAnyone(t *testing.T) {
	store := newCountingStore()
	r := NewResolver(store)
	free := catalog.Title{ID: 1, Slug: "gratis"}

	for _, userID := range []uint{0, 1, 42} {
		v, err := r.Resolve(context.Background(), userID, free)
		require.NoError(t, err)
		assert.True(t, v.Allowed)
		assert.Equal(t, ReasonFree, v.Reason)
	}
	assert.Zero(t, store.gets, "free titles never hit the store")
}

func TestResolveUnauthenticatedShortCircuits(t *testing.T) {
	store := newCountingStore()
	r := NewResolver(store)
	paid := catalog.Title{ID: 2, Slug: "estreno", PaymentCode: "PT", Price: "10.00"}

	v, err := r.Resolve(context.Background(), 0, paid)
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.Equal(t, ReasonUnauthenticated, v.Reason)
	assert.Zero(t, store.gets, "no store lookup before authentication")
}

func TestResolvePaymentRequiredCarriesPolicy(t *testing.T) {
	r := NewResolver(NewInMemoryStore())

	cases := map[string]catalog.PaymentPolicy{
		"PT": catalog.PolicyTotalPay,
		"DO": catalog.PolicyMandatoryDonation,
		"DV": catalog.PolicyVoluntaryDonation,
	}
	for code, policy := range cases {
		v, err := r.Resolve(context.Background(), 1, catalog.Title{ID: 2, PaymentCode: code})
		require.NoError(t, err)
		assert.False(t, v.Allowed)
		assert.Equal(t, ReasonPaymentRequired, v.Reason)
		assert.Equal(t, policy, v.Policy, "code %s", code)
	}
}

func TestResolveOwnedAfterSettlement(t *testing.T) {
	store := NewInMemoryStore()
	r := NewResolver(store)
	paid := catalog.Title{ID: 2, Slug: "estreno", PaymentCode: "PT"}

	_, err := store.Upsert(context.Background(), &Entitlement{
		UserID:        1,
		TitleID:       2,
		TransactionID: "tx-1",
		Amount:        "10.00",
	})
	require.NoError(t, err)

	v, err := r.Resolve(context.Background(), 1, paid)
	require.NoError(t, err)
	assert.True(t, v.Allowed)
	assert.Equal(t, ReasonOwned, v.Reason)

	// A different user still has to pay.
	v, err = r.Resolve(context.Background(), 2, paid)
	require.NoError(t, err)
	assert.False(t, v.Allowed)
	assert.Equal(t, ReasonPaymentRequired, v.Reason)
}

type failingStore struct{}

func (failingStore) Get(context.Context, uint, uint) (*Entitlement, error) {
	return nil, errors.New("store down")
}
func (failingStore) Upsert(context.Context, *Entitlement) (bool, error) {
	return false, errors.New("store down")
}
func (failingStore) ListByUser(context.Context, uint) ([]Entitlement, error) {
	return nil, errors.New("store down")
}

func TestResolveSurfacesStoreErrors(t *testing.T) {
	r := NewResolver(failingStore{})

	_, err := r.Resolve(context.Background(), 1, catalog.Title{ID: 2, PaymentCode: "PT"})
	assert.Error(t, err)
}
