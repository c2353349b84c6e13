package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	catalogmodels "brewleaf/internal/catalog/models"
	catalogservice "brewleaf/internal/catalog/service"
	catalogstore "brewleaf/internal/catalog/store"
	"brewleaf/internal/platform/logger"
	"brewleaf/internal/subscription/models"
	"brewleaf/internal/subscription/store"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/money"
	"brewleaf/pkg/requestcontext"
)

type SubscriptionServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	service *Service
	product *catalogmodels.Product
	user    id.UserID
}

func TestSubscriptionServiceSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceSuite))
}

func (s *SubscriptionServiceSuite) SetupTest() {
	s.now = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	catalog := catalogservice.New(catalogstore.NewInMemory(), catalogservice.WithLogger(logger.Discard()))
	_, err := catalog.CreateCategory(s.ctx, "Coffee", "")
	s.Require().NoError(err)
	s.product, err = catalog.CreateProduct(s.ctx, &catalogmodels.CreateProductRequest{
		Name: "House Blend", Price: money.MustParse("14.00"), CategorySlug: "coffee",
	})
	s.Require().NoError(err)
	s.service = New(store.NewInMemory(), catalog, WithLogger(logger.Discard()))
	s.user = id.NewUserID()
}

func (s *SubscriptionServiceSuite) create(freq models.Frequency) *models.Subscription {
	sub, err := s.service.Create(s.ctx, s.user, models.CreateRequest{ProductID: s.product.ID, Frequency: freq})
	s.Require().NoError(err)
	return sub
}

func (s *SubscriptionServiceSuite) TestCreate_SchedulesFirstDelivery() {
	cases := map[models.Frequency]time.Time{
		models.FrequencyWeekly:   s.now.AddDate(0, 0, 7),
		models.FrequencyBiweekly: s.now.AddDate(0, 0, 14),
		models.FrequencyMonthly:  time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC),
	}
	for freq, want := range cases {
		sub := s.create(freq)
		s.Equal(models.StatusActive, sub.Status, freq)
		s.Equal(want, sub.NextDeliveryDate, freq)
		s.Equal(s.now, sub.CreatedAt)
	}
}

func (s *SubscriptionServiceSuite) TestCreate_UnknownProduct() {
	_, err := s.service.Create(s.ctx, s.user, models.CreateRequest{ProductID: id.NewProductID(), Frequency: models.FrequencyWeekly})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *SubscriptionServiceSuite) TestListForUser_NewestFirst() {
	first := s.create(models.FrequencyWeekly)
	second := s.create(models.FrequencyMonthly)
	other := id.NewUserID()
	_, err := s.service.Create(s.ctx, other, models.CreateRequest{ProductID: s.product.ID, Frequency: models.FrequencyWeekly})
	s.Require().NoError(err)

	subs, err := s.service.ListForUser(s.ctx, s.user)
	s.Require().NoError(err)
	s.Require().Len(subs, 2)
	s.Equal(second.ID, subs[0].ID)
	s.Equal(first.ID, subs[1].ID)

	none, err := s.service.ListForUser(s.ctx, id.NewUserID())
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *SubscriptionServiceSuite) TestUpdateStatus() {
	sub := s.create(models.FrequencyWeekly)

	s.Run("only the owner", func() {
		_, err := s.service.UpdateStatus(s.ctx, id.NewUserID(), sub.ID, models.StatusPaused)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown subscription", func() {
		_, err := s.service.UpdateStatus(s.ctx, s.user, id.NewSubscriptionID(), models.StatusPaused)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("pause then resume reschedules", func() {
		paused, err := s.service.UpdateStatus(s.ctx, s.user, sub.ID, models.StatusPaused)
		s.Require().NoError(err)
		s.Equal(models.StatusPaused, paused.Status)

		later := requestcontext.WithTime(s.ctx, s.now.AddDate(0, 0, 30))
		resumed, err := s.service.UpdateStatus(later, s.user, sub.ID, models.StatusActive)
		s.Require().NoError(err)
		s.Equal(s.now.AddDate(0, 0, 37), resumed.NextDeliveryDate)
	})

	s.Run("cancelled is terminal", func() {
		_, err := s.service.UpdateStatus(s.ctx, s.user, sub.ID, models.StatusCancelled)
		s.Require().NoError(err)

		_, err = s.service.UpdateStatus(s.ctx, s.user, sub.ID, models.StatusActive)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}
