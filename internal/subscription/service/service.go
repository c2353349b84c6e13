package service

import (
	"context"
	"errors"
	"log/slog"

	catalogmodels "brewleaf/internal/catalog/models"
	"brewleaf/internal/subscription/models"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, sub *models.Subscription) error
	FindByID(ctx context.Context, subID id.SubscriptionID) (*models.Subscription, error)
	ListByUser(ctx context.Context, userID id.UserID) ([]*models.Subscription, error)
	Update(ctx context.Context, sub *models.Subscription) error
}

type ProductReader interface {
	GetByID(ctx context.Context, productID id.ProductID) (*catalogmodels.Product, error)
}

type Service struct {
	store    Store
	products ProductReader
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, products ProductReader, opts ...Option) *Service {
	s := &Service{store: store, products: products, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, userID id.UserID, req models.CreateRequest) (*models.Subscription, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "sign in to subscribe")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sub := &models.Subscription{
		ID:               id.NewSubscriptionID(),
		UserID:           userID,
		ProductID:        req.ProductID,
		Frequency:        req.Frequency,
		Variant:          req.Variant,
		Status:           models.StatusActive,
		NextDeliveryDate: req.Frequency.NextDelivery(now),
		CreatedAt:        now,
	}
	if err := s.store.Create(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store subscription")
	}
	s.logger.InfoContext(ctx, "subscription created",
		"request_id", requestcontext.RequestID(ctx),
		"subscription_id", sub.ID.String(),
		"frequency", string(sub.Frequency),
	)
	return sub, nil
}

func (s *Service) ListForUser(ctx context.Context, userID id.UserID) ([]*models.Subscription, error) {
	subs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list subscriptions")
	}
	return subs, nil
}

// UpdateStatus pauses, resumes or cancels the caller's own subscription.
// Resuming schedules the next delivery one period from now.
func (s *Service) UpdateStatus(ctx context.Context, userID id.UserID, subID id.SubscriptionID, status models.Status) (*models.Subscription, error) {
	sub, err := s.store.FindByID(ctx, subID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "subscription not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subscription")
	}
	if sub.UserID != userID {
		return nil, dErrors.New(dErrors.CodeForbidden, "not your subscription")
	}
	if sub.Status == models.StatusCancelled {
		return nil, dErrors.New(dErrors.CodeConflict, "subscription is cancelled")
	}
	if sub.Status == status {
		return sub, nil
	}
	if !sub.Status.CanTransitionTo(status) {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid subscription status")
	}

	if sub.Status == models.StatusPaused && status == models.StatusActive {
		sub.NextDeliveryDate = sub.Frequency.NextDelivery(requestcontext.Now(ctx))
	}
	sub.Status = status
	if err := s.store.Update(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update subscription")
	}
	s.logger.InfoContext(ctx, "subscription status changed",
		"request_id", requestcontext.RequestID(ctx),
		"subscription_id", sub.ID.String(),
		"status", string(status),
	)
	return sub, nil
}
