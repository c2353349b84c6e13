package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	catalog "brewleaf/internal/catalog/models"
	"brewleaf/internal/platform/events"
	"brewleaf/internal/recommendation"
	"brewleaf/internal/recommendation/metrics"
	"brewleaf/internal/recommendation/models"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/sentinel"
	"brewleaf/pkg/requestcontext"
)

// CatalogReader supplies the in-stock snapshot the quiz scores against.
type CatalogReader interface {
	InStockByCategory(ctx context.Context, category string) ([]*catalog.Product, error)
	GetByID(ctx context.Context, productID id.ProductID) (*catalog.Product, error)
}

// ResultSaver records a signed-in user's latest quiz, replacing any previous one.
type ResultSaver interface {
	Upsert(ctx context.Context, result *models.QuizResult) error
}

type ResultStore interface {
	ResultSaver
	FindByUser(ctx context.Context, userID id.UserID) (*models.QuizResult, error)
}

// Result is what a quiz submission returns.
type Result struct {
	Recommendations []*catalog.Product `json:"recommendations"`
	Saved           bool               `json:"saved"`
}

// SavedResult is a stored quiz with its recommendations resolved to products.
// Products deleted since the quiz was taken are left out.
type SavedResult struct {
	Answers         models.QuizAnswers `json:"answers"`
	Recommendations []*catalog.Product `json:"recommendations"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

type Service struct {
	catalog   CatalogReader
	results   ResultStore
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

func New(catalog CatalogReader, results ResultStore, opts ...Option) *Service {
	s := &Service{
		catalog:   catalog,
		results:   results,
		publisher: events.Nop{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit scores the in-stock catalog against the answers. When the caller is
// signed in the answers and recommendations are saved; a failed save is
// logged and does not fail the submission.
func (s *Service) Submit(ctx context.Context, answers models.QuizAnswers) (*Result, error) {
	answers.Normalize()
	if err := answers.Validate(); err != nil {
		return nil, err
	}

	category := recommendation.CategoryFor(answers)
	products, err := s.catalog.InStockByCategory(ctx, category)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load catalog")
	}
	recommended := recommendation.Recommend(products, answers)
	s.metrics.ObserveSubmission(category, len(recommended))

	result := &Result{Recommendations: recommended}
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return result, nil
	}

	ids := make([]id.ProductID, len(recommended))
	for i, p := range recommended {
		ids[i] = p.ID
	}
	quiz := &models.QuizResult{
		UserID:         userID,
		Answers:        answers,
		RecommendedIDs: ids,
		UpdatedAt:      requestcontext.Now(ctx),
	}
	if err := s.results.Upsert(ctx, quiz); err != nil {
		s.metrics.IncrementSaveFailure()
		s.logger.WarnContext(ctx, "failed to save quiz result",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID.String(),
			"error", err,
		)
		return result, nil
	}
	result.Saved = true

	if err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeQuizCompleted,
		Key:        userID.String(),
		OccurredAt: quiz.UpdatedAt,
		Payload:    quiz,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to publish quiz event",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	return result, nil
}

// Latest returns the user's saved quiz.
func (s *Service) Latest(ctx context.Context, userID id.UserID) (*SavedResult, error) {
	quiz, err := s.results.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no quiz result yet")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load quiz result")
	}

	out := &SavedResult{
		Answers:         quiz.Answers,
		Recommendations: make([]*catalog.Product, 0, len(quiz.RecommendedIDs)),
		UpdatedAt:       quiz.UpdatedAt,
	}
	for _, pid := range quiz.RecommendedIDs {
		p, err := s.catalog.GetByID(ctx, pid)
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Recommendations = append(out.Recommendations, p)
	}
	return out, nil
}
