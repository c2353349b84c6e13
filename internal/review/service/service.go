package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	catalog "brewleaf/internal/catalog/models"
	"brewleaf/internal/platform/events"
	"brewleaf/internal/review"
	"brewleaf/internal/review/metrics"
	"brewleaf/internal/review/models"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/platform/tx"
	"brewleaf/pkg/requestcontext"
)

var tracer = otel.Tracer("brewleaf/review")

type Store interface {
	Create(ctx context.Context, r *models.Review) error
	Delete(ctx context.Context, reviewID id.ReviewID) error
	ListByProduct(ctx context.Context, productID id.ProductID) ([]*models.Review, error)
	Ratings(ctx context.Context, productID id.ProductID) ([]int, error)
}

// Catalog is the product side of the aggregate.
type Catalog interface {
	GetByID(ctx context.Context, productID id.ProductID) (*catalog.Product, error)
	UpdateAggregate(ctx context.Context, productID id.ProductID, agg catalog.Aggregate) error
	ProductIDs(ctx context.Context) ([]id.ProductID, error)
}

// SubmitResult is the stored review and the product aggregate it produced.
type SubmitResult struct {
	Review    *models.Review     `json:"review"`
	Aggregate catalog.Aggregate `json:"aggregate"`
}

type Service struct {
	store     Store
	catalog   Catalog
	tx        ProductTx
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(store Store, catalog Catalog, productTx ProductTx, opts ...Option) *Service {
	s := &Service{
		store:     store,
		catalog:   catalog,
		tx:        productTx,
		publisher: events.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores a review and recomputes the product's aggregate in the same
// per-product transaction, so the aggregate always includes the new review
// and concurrent submissions cannot overwrite each other's result.
func (s *Service) Submit(ctx context.Context, userID id.UserID, productID id.ProductID, req models.SubmitRequest) (*SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "review.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("product.id", productID.String()),
		attribute.Int("review.rating", req.Rating),
	)

	res, err := s.submit(ctx, userID, productID, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "review rejected")
		return nil, err
	}
	return res, nil
}

func (s *Service) submit(ctx context.Context, userID id.UserID, productID id.ProductID, req models.SubmitRequest) (*SubmitResult, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "sign in to write a review")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	r := &models.Review{
		ID:        id.NewReviewID(),
		UserID:    userID,
		ProductID: productID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		CreatedAt: requestcontext.Now(ctx),
	}

	var agg catalog.Aggregate
	err := s.tx.RunInTx(ctx, productID, func(ctx context.Context) error {
		if err := s.store.Create(ctx, r); err != nil {
			return translateCreateErr(err)
		}
		var err error
		agg, err = s.recompute(ctx, productID)
		if _, inSQLTx := tx.From(ctx); err != nil && !inSQLTx {
			// No rollback outside SQL; drop the insert so a retry is not a duplicate.
			if undoErr := s.store.Delete(ctx, r.ID); undoErr != nil {
				s.logger.ErrorContext(ctx, "failed to undo review insert",
					"request_id", requestcontext.RequestID(ctx),
					"review_id", r.ID.String(),
					"error", undoErr,
				)
			}
		}
		return err
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			s.metrics.IncrementConflict()
		}
		s.logger.WarnContext(ctx, "review not stored",
			"request_id", requestcontext.RequestID(ctx),
			"product_id", productID.String(),
			"error", err,
		)
		return nil, translateTxErr(err)
	}

	s.metrics.IncrementSubmitted(strconv.Itoa(r.Rating))
	s.logger.InfoContext(ctx, "review stored",
		"request_id", requestcontext.RequestID(ctx),
		"product_id", productID.String(),
		"rating", agg.Rating,
		"review_count", agg.Count,
	)
	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeReviewCreated,
		Key:        productID.String(),
		OccurredAt: r.CreatedAt,
		Payload: map[string]any{
			"review_id":    r.ID.String(),
			"product_id":   productID.String(),
			"rating":       r.Rating,
			"avg_rating":   agg.Rating,
			"review_count": agg.Count,
		},
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review event", "error", err)
	}
	return &SubmitResult{Review: r, Aggregate: agg}, nil
}

// List returns a product's reviews, newest first.
func (s *Service) List(ctx context.Context, productID id.ProductID) ([]*models.Review, error) {
	if _, err := s.catalog.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	reviews, err := s.store.ListByProduct(ctx, productID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reviews")
	}
	return reviews, nil
}

// RecomputeAll rewrites every product's aggregate from its reviews. It
// repairs aggregates left stale by a failure between insert and update.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	ids, err := s.catalog.ProductIDs(ctx)
	if err != nil {
		return 0, err
	}
	var updated int
	for _, productID := range ids {
		err := s.tx.RunInTx(ctx, productID, func(ctx context.Context) error {
			_, err := s.recompute(ctx, productID)
			return err
		})
		if errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			// deleted while the pass was running
			continue
		}
		if err != nil {
			return updated, translateTxErr(err)
		}
		s.metrics.IncrementRecomputed()
		updated++
	}
	s.logger.InfoContext(ctx, "ratings recomputed", "products", updated)
	return updated, nil
}

func (s *Service) recompute(ctx context.Context, productID id.ProductID) (catalog.Aggregate, error) {
	ratings, err := s.store.Ratings(ctx, productID)
	if err != nil {
		return catalog.Aggregate{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read ratings")
	}
	agg := review.Aggregate(ratings)
	if err := s.catalog.UpdateAggregate(ctx, productID, agg); err != nil {
		return catalog.Aggregate{}, err
	}
	return agg, nil
}

func translateCreateErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, "you have already reviewed this product")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "product not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store review")
	}
}

// translateTxErr codes errors raised by the transaction itself; errors from
// inside fn are already coded.
func translateTxErr(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, "product not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "review transaction failed")
}
