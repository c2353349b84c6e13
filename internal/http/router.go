package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"brewleaf/internal/platform/metrics"
	"brewleaf/internal/platform/middleware"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/httputil"
)

// Routes is implemented by every bounded context's HTTP handler.
type Routes interface {
	Register(r chi.Router)
}

type routesFunc func(r chi.Router)

func (f routesFunc) Register(r chi.Router) { f(r) }

// Group mounts routes behind extra middleware, leaving the rest of the
// router untouched.
func Group(mw func(http.Handler) http.Handler, routes ...Routes) Routes {
	return routesFunc(func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mw)
			for _, rt := range routes {
				rt.Register(r)
			}
		})
	})
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Options struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	RequestTimeout time.Duration
	HealthChecks   map[string]HealthCheck
}

// NewRouter applies the shared middleware chain and mounts every handler.
func NewRouter(opts Options, routes ...Routes) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Latency(opts.Metrics))
	r.Use(middleware.Timeout(opts.RequestTimeout))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", healthHandler(opts.HealthChecks))
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "route not found"))
	})

	for _, routes := range routes {
		routes.Register(r)
	}
	return r
}

// healthHandler runs every check concurrently and fails on the first error.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		for name, check := range checks {
			g.Go(func() error {
				if err := check(gctx); err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, name+" unavailable")
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  dErrors.MessageOf(err),
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
