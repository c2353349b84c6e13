//go:build integration

package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"

	cartmodels "brewleaf/internal/cart/models"
	"brewleaf/internal/subscription/models"
	"brewleaf/internal/subscription/store"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/testutil/containers"
)

type SubscriptionPostgresSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
}

func TestSubscriptionPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(SubscriptionPostgresSuite))
}

func (s *SubscriptionPostgresSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *SubscriptionPostgresSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.postgres.Truncate(s.ctx, "subscriptions"))
}

func (s *SubscriptionPostgresSuite) subscription(userID id.UserID, createdAt time.Time) *models.Subscription {
	createdAt = createdAt.UTC().Truncate(time.Microsecond)
	return &models.Subscription{
		ID:               id.NewSubscriptionID(),
		UserID:           userID,
		ProductID:        id.NewProductID(),
		Frequency:        models.FrequencyBiweekly,
		Variant:          cartmodels.VariantMedium,
		Status:           models.StatusActive,
		NextDeliveryDate: models.FrequencyBiweekly.NextDelivery(createdAt),
		CreatedAt:        createdAt,
	}
}

func (s *SubscriptionPostgresSuite) TestCreateFindUpdate() {
	sub := s.subscription(id.NewUserID(), time.Now())
	s.Require().NoError(s.store.Create(s.ctx, sub))

	got, err := s.store.FindByID(s.ctx, sub.ID)
	s.Require().NoError(err)
	got.CreatedAt = got.CreatedAt.UTC()
	got.NextDeliveryDate = got.NextDeliveryDate.UTC()
	if diff := cmp.Diff(sub, got); diff != "" {
		s.Failf("subscription mismatch", "(-want +got):\n%s", diff)
	}

	got.Status = models.StatusPaused
	s.Require().NoError(s.store.Update(s.ctx, got))
	again, err := s.store.FindByID(s.ctx, sub.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPaused, again.Status)

	missing := s.subscription(id.NewUserID(), time.Now())
	s.True(errors.Is(s.store.Update(s.ctx, missing), sentinel.ErrNotFound))
}

func (s *SubscriptionPostgresSuite) TestListByUserNewestFirst() {
	user := id.NewUserID()
	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	older := s.subscription(user, base)
	newer := s.subscription(user, base.Add(time.Hour))
	for _, sub := range []*models.Subscription{older, newer, s.subscription(id.NewUserID(), base)} {
		s.Require().NoError(s.store.Create(s.ctx, sub))
	}

	subs, err := s.store.ListByUser(s.ctx, user)
	s.Require().NoError(err)
	s.Require().Len(subs, 2)
	s.Equal(newer.ID, subs[0].ID)
	s.Equal(older.ID, subs[1].ID)
}
