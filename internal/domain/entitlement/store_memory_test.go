package entitlement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type EntitlementStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *EntitlementStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestEntitlementStoreSuite(t *testing.T) {
	suite.Run(t, new(EntitlementStoreSuite))
}

func (s *EntitlementStoreSuite) TestUpsertAndGet() {
	s.Run("grants and finds by pair", func() {
		granted, err := s.store.Upsert(s.ctx, &Entitlement{
			UserID: 1, TitleID: 7, TransactionID: "tx-1", Amount: "10.00",
		})
		s.Require().NoError(err)
		s.True(granted)

		found, err := s.store.Get(s.ctx, 1, 7)
		s.Require().NoError(err)
		s.Equal("tx-1", found.TransactionID)
		s.False(found.PurchasedAt.IsZero())
	})

	s.Run("returns ErrNotFound for unknown pair", func() {
		_, err := s.store.Get(s.ctx, 9, 9)
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func (s *EntitlementStoreSuite) TestUpsertIsIdempotentPerPair() {
	granted, err := s.store.Upsert(s.ctx, &Entitlement{
		UserID: 1, TitleID: 7, TransactionID: "tx-1", Amount: "10.00",
	})
	s.Require().NoError(err)
	s.True(granted)

	// A replay with the same transaction keeps the original row.
	granted, err = s.store.Upsert(s.ctx, &Entitlement{
		UserID: 1, TitleID: 7, TransactionID: "tx-1", Amount: "10.00",
	})
	s.Require().NoError(err)
	s.True(granted)

	rows, err := s.store.ListByUser(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(rows, 1)
	s.Equal("tx-1", rows[0].TransactionID)
}

func (s *EntitlementStoreSuite) TestListByUser() {
	for _, titleID := range []uint{1, 2, 3} {
		_, err := s.store.Upsert(s.ctx, &Entitlement{
			UserID: 1, TitleID: titleID, TransactionID: "tx-" + string(rune('0'+titleID)), Amount: "5.00",
		})
		s.Require().NoError(err)
	}
	_, err := s.store.Upsert(s.ctx, &Entitlement{
		UserID: 2, TitleID: 1, TransactionID: "tx-other", Amount: "5.00",
	})
	s.Require().NoError(err)

	rows, err := s.store.ListByUser(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(rows, 3)
}
