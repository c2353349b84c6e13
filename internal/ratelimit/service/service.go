// Package service decides whether a client may spend another request from an
// endpoint class budget.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"brewleaf/internal/ratelimit/metrics"
	"brewleaf/internal/ratelimit/models"
	"brewleaf/pkg/platform/circuit"
)

// Store records requests in a sliding window.
type Store interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
	Reset(ctx context.Context, key string) error
}

// Limiter checks the primary store and falls back to an in-process store
// while the primary is failing. Results served by the fallback are marked
// Degraded.
type Limiter struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limits   map[models.Class]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) {
		l.metrics = m
	}
}

// WithFallback sets the store used while the primary breaker is open.
func WithFallback(s Store) Option {
	return func(l *Limiter) {
		l.fallback = s
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(l *Limiter) {
		l.breaker = b
	}
}

func New(primary Store, limits map[models.Class]models.Limit, opts ...Option) *Limiter {
	l := &Limiter{
		primary: primary,
		limits:  limits,
		breaker: circuit.New("ratelimit"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Check spends one request for identifier in class. Classes without a
// configured limit are always allowed.
func (l *Limiter) Check(ctx context.Context, class models.Class, identifier string) (*models.Result, error) {
	limit, ok := l.limits[class]
	if !ok || limit.Requests <= 0 {
		return &models.Result{Allowed: true}, nil
	}
	key := models.Key(class, identifier)

	res, err := l.check(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("check %s limit: %w", class, err)
	}
	if !res.Allowed {
		l.metrics.IncrementDenied(string(class))
	}
	return res, nil
}

func (l *Limiter) check(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	res, err := l.primary.Allow(ctx, key, limit)
	if err != nil {
		_, change := l.breaker.RecordFailure()
		if change.Opened {
			l.logger.WarnContext(ctx, "rate limit store failing, using in-process fallback", "error", err)
			l.metrics.SetDegraded(true)
		}
		if l.fallback == nil {
			return nil, err
		}
		return l.fromFallback(ctx, key, limit)
	}

	// While the breaker is still open the primary window may be missing
	// requests counted by the fallback, so the fallback keeps deciding.
	usePrimary, change := l.breaker.RecordSuccess()
	if change.Closed {
		l.logger.InfoContext(ctx, "rate limit store recovered")
		l.metrics.SetDegraded(false)
	}
	if !usePrimary && l.fallback != nil {
		return l.fromFallback(ctx, key, limit)
	}
	return res, nil
}

func (l *Limiter) fromFallback(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	l.metrics.IncrementFallback()
	res, err := l.fallback.Allow(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("fallback rate limit: %w", err)
	}
	res.Degraded = true
	return res, nil
}

// Reset clears a client's budget in both stores.
func (l *Limiter) Reset(ctx context.Context, class models.Class, identifier string) error {
	key := models.Key(class, identifier)
	if err := l.primary.Reset(ctx, key); err != nil {
		return err
	}
	if l.fallback != nil {
		return l.fallback.Reset(ctx, key)
	}
	return nil
}
