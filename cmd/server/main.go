package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"brewleaf/internal/app"
	"brewleaf/internal/catalog/seed"
	"brewleaf/internal/platform/config"
	"brewleaf/internal/platform/events"
	"brewleaf/internal/platform/httpserver"
	"brewleaf/internal/platform/logger"
	"brewleaf/internal/platform/postgres"
	"brewleaf/internal/platform/redis"
	"brewleaf/pkg/platform/circuit"
	"brewleaf/pkg/requestcontext"
)

// main wires backends into the app and runs the HTTP server until SIGINT or
// SIGTERM. Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var backends app.Backends
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		backends.DB = db
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		backends.Redis = redisClient.Client
		log.Info("using redis cart sessions")
	}

	var publisher events.Publisher = events.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			return err
		}
		if err := kafka.EnsureTopic(ctx, 3); err != nil {
			log.Warn("could not ensure kafka topic", "topic", cfg.Kafka.Topic, "error", err)
		}
		publisher = events.NewFallbackPublisher(kafka, publisher, circuit.New("kafka"), log)
		log.Info("publishing events to kafka", "topic", cfg.Kafka.Topic)
	}
	async := events.NewAsyncPublisher(publisher, 256, log)
	defer async.Close()
	backends.Publisher = async

	application, err := app.New(cfg, backends, log, reg)
	if err != nil {
		return err
	}

	doc, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	if _, err := application.Seed(requestcontext.WithTime(ctx, time.Now()), doc); err != nil {
		return err
	}

	srv := httpserver.New(cfg.Server, application.Router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting brewleaf", "addr", cfg.Server.Addr, "env", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
