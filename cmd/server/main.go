package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"mixconc/internal/mixture"
	"mixconc/internal/mixture/cache"
	mixturemetrics "mixconc/internal/mixture/metrics"
	"mixconc/internal/platform/config"
	"mixconc/internal/platform/httpserver"
	"mixconc/internal/platform/logger"
	platformmetrics "mixconc/internal/platform/metrics"
	"mixconc/internal/platform/redis"
	"mixconc/internal/report"
	"mixconc/pkg/platform/circuit"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	mixMetrics := mixturemetrics.New(reg)
	opts := []mixture.Option{
		mixture.WithLogger(log),
		mixture.WithMetrics(mixMetrics),
		mixture.WithBatchConcurrency(cfg.Batch.Concurrency),
	}
	if resultCache := buildCache(cfg, redisClient, log); resultCache != nil {
		opts = append(opts, mixture.WithCache(resultCache))
	}
	svc := mixture.NewService(opts...)

	deps := routerDeps{
		service:      svc,
		registry:     report.DefaultRegistry(),
		version:      cfg.AppVersion,
		maxBatchSize: cfg.Batch.MaxSize,
		logger:       log,
		httpMetrics:  platformmetrics.New(reg),
		gatherer:     reg,
	}
	if redisClient != nil {
		deps.redis = redisClient
	}
	srv := httpserver.New(cfg.Addr, newRouter(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting mixconc",
			"addr", cfg.Addr,
			"version", cfg.AppVersion,
			"redis", redisClient != nil,
			"cache_ttl", cfg.Cache.TTL.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// buildCache picks the result cache: Redis with an in-memory fallback when
// Redis is configured, memory alone otherwise, nothing when caching is off.
func buildCache(cfg config.Server, client *redis.Client, log *slog.Logger) mixture.Cache {
	if !cfg.Cache.Enabled() {
		return nil
	}
	memory := cache.NewInMemoryStore(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	if client == nil {
		return memory
	}
	return cache.NewFallbackStore(
		cache.NewRedisStore(client, cfg.Cache.TTL),
		memory,
		circuit.New("result-cache"),
		log,
	)
}
