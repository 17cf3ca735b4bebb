package mixture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"mixconc/internal/mixture/metrics"
	dErrors "mixconc/pkg/domain-errors"
	"mixconc/pkg/platform/sentinel"
	"mixconc/pkg/requestcontext"
)

const defaultBatchConcurrency = 4

// Cache stores successful results by request key. Get returns
// sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, error)
	Set(ctx context.Context, key string, res *Result) error
}

// Service runs mixture computations with validation, caching and
// observability around the pure engine.
type Service struct {
	cache            Cache
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
	batchConcurrency int
}

type Option func(s *Service)

func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

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

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithBatchConcurrency bounds how many batch items run at once.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// NewService constructs a Service. Without options it logs nowhere, records
// no metrics and caches nothing.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger:           slog.New(slog.DiscardHandler),
		tracer:           otel.Tracer("mixconc/internal/mixture"),
		batchConcurrency: defaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compute validates req and runs the engine.
//
// Errors: CodeValidation for invalid requests; CodeUnprocessable wrapping a
// *SolveError when the two-component solve is impossible.
func (s *Service) Compute(ctx context.Context, req Request) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "mixture.Compute")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.ObserveComputeLatency(time.Since(start)) }()

	mode := req.Mode()
	span.SetAttributes(
		attribute.String("mixture.mode", string(mode)),
		attribute.String("mixture.unit", req.ConcentrationUnit.String()),
		attribute.Int("mixture.components", len(req.Components)),
	)

	if err := req.Validate(); err != nil {
		s.metrics.IncrementComputation(string(mode), "invalid")
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	key := CacheKey(req)
	if res, ok := s.lookup(ctx, key); ok {
		s.metrics.IncrementComputation(string(mode), "ok")
		span.SetAttributes(attribute.Bool("mixture.cache_hit", true))
		return res, nil
	}

	res, err := Compute(req)
	if err != nil {
		var se *SolveError
		if errors.As(err, &se) {
			s.metrics.IncrementComputation(string(mode), "unsolvable")
			s.metrics.IncrementSolveFailure(string(se.Reason))
			span.SetStatus(codes.Error, string(se.Reason))
			s.logger.InfoContext(ctx, "mixture not solvable",
				"request_id", requestcontext.RequestID(ctx),
				"reason", se.Reason,
				"error", se.Message,
			)
			return nil, dErrors.Wrap(err, dErrors.CodeUnprocessable, se.Message)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "compute failed")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "mixture computation failed")
	}

	s.store(ctx, key, res)
	s.metrics.IncrementComputation(string(mode), "ok")
	s.logger.DebugContext(ctx, "mixture computed",
		"request_id", requestcontext.RequestID(ctx),
		"mode", res.Mode,
		"components", len(res.Components),
		"concentration", res.Concentration,
		"unit", res.ConcentrationUnit,
	)
	return res, nil
}

// lookup consults the cache. Cache errors are logged and treated as misses.
func (s *Service) lookup(ctx context.Context, key string) (*Result, bool) {
	if s.cache == nil {
		return nil, false
	}
	res, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		s.metrics.IncrementCacheLookup("hit")
		return res, true
	case errors.Is(err, sentinel.ErrNotFound):
		s.metrics.IncrementCacheLookup("miss")
	default:
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "result cache lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
	return nil, false
}

func (s *Service) store(ctx context.Context, key string, res *Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, res); err != nil {
		s.logger.WarnContext(ctx, "result cache store failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

// BatchItem is the outcome of one request in a batch: exactly one of Result
// and Err is set.
type BatchItem struct {
	Result *Result
	Err    error
}

// ComputeBatch evaluates independent requests concurrently. An item's failure
// never affects the others; the returned error is only set when ctx ends
// before every item ran.
func (s *Service) ComputeBatch(ctx context.Context, reqs []Request) ([]BatchItem, error) {
	s.metrics.ObserveBatchSize(len(reqs))
	items := make([]BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Compute(gctx, req)
			items[i] = BatchItem{Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "batch computation interrupted")
	}
	return items, nil
}

// CacheKey derives a stable key from the full request snapshot.
func CacheKey(req Request) string {
	// Request holds only strings and finite floats after validation, so
	// marshalling cannot fail.
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return "mixconc:result:" + hex.EncodeToString(sum[:])
}
