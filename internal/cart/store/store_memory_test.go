package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"brewleaf/internal/cart/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/money"
)

type CartStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
	clock time.Time
}

func TestCartStoreSuite(t *testing.T) {
	suite.Run(t, new(CartStoreSuite))
}

func (s *CartStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	s.store = NewInMemory(time.Hour)
	s.store.now = func() time.Time { return s.clock }
}

func (s *CartStoreSuite) TestRoundTrip() {
	s.Run("missing session loads an empty cart", func() {
		c, err := s.store.Load(s.ctx, "nobody")
		s.Require().NoError(err)
		s.Zero(c.Len())
		s.False(c.DrawerOpen())
	})

	s.Run("saved cart loads back", func() {
		c := models.NewCart()
		c.AddItem(id.ProductID(uuid.New()), models.VariantFine, "Espresso", money.MustParse("21.99"), 2)
		s.Require().NoError(s.store.Save(s.ctx, "sess-1", c))

		loaded, err := s.store.Load(s.ctx, "sess-1")
		s.Require().NoError(err)
		s.Equal(c.Items(), loaded.Items())
		s.True(loaded.DrawerOpen())
	})

	s.Run("mutating a loaded cart does not touch the store", func() {
		loaded, err := s.store.Load(s.ctx, "sess-1")
		s.Require().NoError(err)
		loaded.Clear()

		again, err := s.store.Load(s.ctx, "sess-1")
		s.Require().NoError(err)
		s.Equal(2, again.TotalItems())
	})
}

func (s *CartStoreSuite) TestExpiryAndDelete() {
	c := models.NewCart()
	c.AddItem(id.ProductID(uuid.New()), models.VariantWholeBean, "Tea", money.MustParse("5.00"), 1)
	s.Require().NoError(s.store.Save(s.ctx, "sess-2", c))

	s.clock = s.clock.Add(2 * time.Hour)
	expired, err := s.store.Load(s.ctx, "sess-2")
	s.Require().NoError(err)
	s.Zero(expired.Len())

	s.Require().NoError(s.store.Save(s.ctx, "sess-3", c))
	s.Require().NoError(s.store.Delete(s.ctx, "sess-3"))
	deleted, err := s.store.Load(s.ctx, "sess-3")
	s.Require().NoError(err)
	s.Zero(deleted.Len())
}
