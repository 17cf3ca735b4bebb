package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mixconc/internal/mixture"
	mixhandler "mixconc/internal/mixture/handler"
	platformmetrics "mixconc/internal/platform/metrics"
	"mixconc/internal/platform/middleware"
	"mixconc/internal/report"
	reporthandler "mixconc/internal/report/handler"
	"mixconc/pkg/platform/httputil"
	"mixconc/pkg/platform/middleware/metadata"
	"mixconc/pkg/platform/middleware/requesttime"
)

const healthCheckTimeout = 2 * time.Second

// healthChecker is satisfied by the Redis client.
type healthChecker interface {
	Health(ctx context.Context) error
}

type routerDeps struct {
	service      *mixture.Service
	registry     *report.Registry
	version      string
	maxBatchSize int
	logger       *slog.Logger
	httpMetrics  *platformmetrics.Metrics
	gatherer     prometheus.Gatherer
	// redis is nil when Redis is not configured.
	redis healthChecker
}

func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Metrics(deps.httpMetrics))
	r.Use(chimiddleware.Recoverer)

	mixhandler.New(deps.service, deps.logger, deps.maxBatchSize).Register(r)
	reporthandler.New(deps.service, deps.registry, deps.version, deps.logger).Register(r)

	r.Handle("/metrics", promhttp.HandlerFor(deps.gatherer, promhttp.HandlerOpts{}))
	r.Get("/health", healthHandler(deps.version, deps.redis))
	return r
}

func healthHandler(version string, redis healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]string{"status": "ok", "version": version, "redis": "disabled"}
		if redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			// Redis is only a cache; an outage degrades the check.
			if err := redis.Health(ctx); err != nil {
				body["status"] = "degraded"
				body["redis"] = "unreachable"
			} else {
				body["redis"] = "ok"
			}
		}
		httputil.WriteJSON(w, http.StatusOK, body)
	}
}
