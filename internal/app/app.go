// Package app assembles the storefront from configuration and whichever
// backends are available. Missing backends fall back to in-process stores.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	authhandler "brewleaf/internal/auth/handler"
	authservice "brewleaf/internal/auth/service"
	userstore "brewleaf/internal/auth/store/user"
	carthandler "brewleaf/internal/cart/handler"
	cartmetrics "brewleaf/internal/cart/metrics"
	cartservice "brewleaf/internal/cart/service"
	cartstore "brewleaf/internal/cart/store"
	cataloghandler "brewleaf/internal/catalog/handler"
	"brewleaf/internal/catalog/seed"
	catalogservice "brewleaf/internal/catalog/service"
	catalogstore "brewleaf/internal/catalog/store"
	httpapi "brewleaf/internal/http"
	jwttoken "brewleaf/internal/jwt_token"
	orderhandler "brewleaf/internal/order/handler"
	ordermetrics "brewleaf/internal/order/metrics"
	orderservice "brewleaf/internal/order/service"
	orderstore "brewleaf/internal/order/store"
	"brewleaf/internal/platform/config"
	"brewleaf/internal/platform/events"
	"brewleaf/internal/platform/metrics"
	"brewleaf/internal/pricing"
	pricinghandler "brewleaf/internal/pricing/handler"
	quizhandler "brewleaf/internal/recommendation/handler"
	quizmetrics "brewleaf/internal/recommendation/metrics"
	quizservice "brewleaf/internal/recommendation/service"
	quizstore "brewleaf/internal/recommendation/store"
	ratelimitmetrics "brewleaf/internal/ratelimit/metrics"
	ratelimitmw "brewleaf/internal/ratelimit/middleware"
	ratelimitmodels "brewleaf/internal/ratelimit/models"
	ratelimitservice "brewleaf/internal/ratelimit/service"
	ratelimitstore "brewleaf/internal/ratelimit/store"
	reviewhandler "brewleaf/internal/review/handler"
	reviewmetrics "brewleaf/internal/review/metrics"
	reviewservice "brewleaf/internal/review/service"
	reviewstore "brewleaf/internal/review/store"
	subhandler "brewleaf/internal/subscription/handler"
	subservice "brewleaf/internal/subscription/service"
	substore "brewleaf/internal/subscription/store"
	"brewleaf/pkg/requestcontext"
)

// Backends are the optional external dependencies. Nil fields select the
// in-memory implementation.
type Backends struct {
	DB        *sql.DB
	Redis     *goredis.Client
	Publisher events.Publisher
}

type App struct {
	Catalog       *catalogservice.Service
	Cart          *cartservice.Service
	Quiz          *quizservice.Service
	Reviews       *reviewservice.Service
	Orders        *orderservice.Service
	Subscriptions *subservice.Service
	Auth          *authservice.Service
	Tokens        *jwttoken.JWTService
	Policy        pricing.Policy
	Router        http.Handler

	catalogStore seed.Store
	logger       *slog.Logger
}

type Option func(*options)

type options struct {
	hashCost int
}

// WithHashCost lowers the bcrypt cost, for tests.
func WithHashCost(cost int) Option {
	return func(o *options) {
		o.hashCost = cost
	}
}

// New wires every bounded context and builds the HTTP router.
func New(cfg config.Config, b Backends, logger *slog.Logger, reg *prometheus.Registry, opts ...Option) (*App, error) {
	o := options{hashCost: authservice.DefaultHashCost}
	for _, opt := range opts {
		opt(&o)
	}
	if b.Publisher == nil {
		b.Publisher = events.Nop{}
	}

	policy, err := pricing.PolicyFromConfig(cfg.Pricing)
	if err != nil {
		return nil, fmt.Errorf("pricing policy: %w", err)
	}

	var (
		catalogStore catalogservice.Store
		users        authservice.UserStore
		quizResults  quizservice.ResultStore
		reviews      reviewservice.Store
		reviewTx     reviewservice.ProductTx
		orders       orderservice.Store
		subs         subservice.Store
		carts        cartservice.Store
		limitStore   ratelimitservice.Store
		healthChecks = map[string]httpapi.HealthCheck{}
	)
	if b.DB != nil {
		catalogStore = catalogstore.NewPostgres(b.DB)
		users = userstore.NewPostgres(b.DB)
		quizResults = quizstore.NewPostgres(b.DB)
		reviews = reviewstore.NewPostgres(b.DB)
		reviewTx = reviewstore.NewPostgresTx(b.DB)
		orders = orderstore.NewPostgres(b.DB)
		subs = substore.NewPostgres(b.DB)
		healthChecks["postgres"] = b.DB.PingContext
	} else {
		catalogStore = catalogstore.NewInMemory()
		users = userstore.New()
		quizResults = quizstore.NewInMemory()
		reviews = reviewstore.NewInMemory()
		reviewTx = reviewservice.NewShardedTx()
		orders = orderstore.NewInMemory()
		subs = substore.NewInMemory()
	}
	if b.Redis != nil {
		carts = cartstore.NewRedis(b.Redis, cfg.Cart.SessionTTL)
		limitStore = ratelimitstore.NewRedis(b.Redis)
		healthChecks["redis"] = func(ctx context.Context) error { return b.Redis.Ping(ctx).Err() }
	} else {
		carts = cartstore.NewInMemory(cfg.Cart.SessionTTL)
		limitStore = ratelimitstore.NewInMemory()
	}

	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	validator := jwttoken.NewJWTServiceAdapter(tokens)

	a := &App{Tokens: tokens, Policy: policy, catalogStore: catalogStore, logger: logger}
	a.Catalog = catalogservice.New(catalogStore, catalogservice.WithLogger(logger))
	a.Cart = cartservice.New(carts, a.Catalog,
		cartservice.WithLogger(logger),
		cartservice.WithMetrics(cartmetrics.New(reg)),
		cartservice.WithPolicy(policy),
	)
	a.Quiz = quizservice.New(a.Catalog, quizResults,
		quizservice.WithLogger(logger),
		quizservice.WithMetrics(quizmetrics.New(reg)),
		quizservice.WithPublisher(b.Publisher),
	)
	a.Reviews = reviewservice.New(reviews, a.Catalog, reviewTx,
		reviewservice.WithLogger(logger),
		reviewservice.WithMetrics(reviewmetrics.New(reg)),
		reviewservice.WithPublisher(b.Publisher),
	)
	a.Auth, err = authservice.New(users, tokens,
		authservice.WithLogger(logger),
		authservice.WithHashCost(o.hashCost),
	)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	a.Orders = orderservice.New(orders, a.Cart, a.Catalog, a.Auth,
		orderservice.WithLogger(logger),
		orderservice.WithMetrics(ordermetrics.New(reg)),
		orderservice.WithPublisher(b.Publisher),
		orderservice.WithPolicy(policy),
	)
	a.Subscriptions = subservice.New(subs, a.Catalog, subservice.WithLogger(logger))

	limiter := ratelimitservice.New(limitStore, map[ratelimitmodels.Class]ratelimitmodels.Limit{
		ratelimitmodels.ClassAuth:  {Requests: cfg.RateLimit.AuthRequests, Window: cfg.RateLimit.AuthWindow},
		ratelimitmodels.ClassWrite: {Requests: cfg.RateLimit.WriteRequests, Window: cfg.RateLimit.WriteWindow},
	},
		ratelimitservice.WithLogger(logger),
		ratelimitservice.WithMetrics(ratelimitmetrics.New(reg)),
		ratelimitservice.WithFallback(ratelimitstore.NewInMemory()),
	)
	limits := ratelimitmw.New(limiter, logger, ratelimitmw.WithDisabled(cfg.RateLimit.Disabled))

	a.Router = httpapi.NewRouter(httpapi.Options{
		Logger:         logger,
		Metrics:        metrics.New(reg),
		Gatherer:       reg,
		RequestTimeout: cfg.Server.RequestTimeout,
		HealthChecks:   healthChecks,
	},
		httpapi.Group(limits.RateLimit(ratelimitmodels.ClassAuth),
			authhandler.New(a.Auth, logger, validator),
		),
		cataloghandler.New(a.Catalog, logger, validator),
		carthandler.New(a.Cart, logger, validator),
		pricinghandler.New(policy, logger),
		quizhandler.New(a.Quiz, logger, validator),
		httpapi.Group(limits.RateLimit(ratelimitmodels.ClassWrite),
			reviewhandler.New(a.Reviews, logger, validator),
			orderhandler.New(a.Orders, logger, validator),
			subhandler.New(a.Subscriptions, logger, validator),
		),
	)
	return a, nil
}

// SeedResult counts what Seed created.
type SeedResult struct {
	seed.Result
	Users int
}

// Seed loads users, categories and products. Existing rows are skipped.
func (a *App) Seed(ctx context.Context, doc *seed.Document) (SeedResult, error) {
	var res SeedResult
	for _, u := range doc.Users {
		created, err := a.Auth.EnsureUser(ctx, u.Name, u.Email, u.Password, requestcontext.Role(strings.ToUpper(u.Role)))
		if err != nil {
			return res, fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		if created {
			res.Users++
		}
	}
	catalogRes, err := seed.Apply(ctx, a.catalogStore, doc, requestcontext.Now(ctx))
	res.Result = catalogRes
	if err != nil {
		return res, err
	}
	a.logger.InfoContext(ctx, "seed applied",
		"users", res.Users,
		"categories", res.Categories,
		"products", res.Products,
		"skipped", res.Skipped,
	)
	return res, nil
}
