package cache

import (
	"context"
	"errors"
	"log/slog"

	"mixconc/internal/mixture"
	"mixconc/pkg/platform/circuit"
	"mixconc/pkg/platform/sentinel"
)

// FallbackStore fronts a shared primary cache (Redis) with a local fallback.
// The primary is always tried; once the breaker opens, lookups and writes
// that fail on the primary are served by the fallback until the primary
// recovers.
type FallbackStore struct {
	primary  mixture.Cache
	fallback mixture.Cache
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackStore(primary, fallback mixture.Cache, breaker *circuit.Breaker, logger *slog.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (s *FallbackStore) Get(ctx context.Context, key string) (*mixture.Result, error) {
	res, err := s.primary.Get(ctx, key)
	if err == nil || errors.Is(err, sentinel.ErrNotFound) {
		s.recordSuccess(ctx)
		if err != nil && s.breaker.IsOpen() {
			return s.fallback.Get(ctx, key)
		}
		return res, err
	}
	if s.recordFailure(ctx, err) {
		return s.fallback.Get(ctx, key)
	}
	return nil, err
}

func (s *FallbackStore) Set(ctx context.Context, key string, res *mixture.Result) error {
	err := s.primary.Set(ctx, key, res)
	if err == nil {
		s.recordSuccess(ctx)
		if s.breaker.IsOpen() {
			return s.fallback.Set(ctx, key, res)
		}
		return nil
	}
	if s.recordFailure(ctx, err) {
		return s.fallback.Set(ctx, key, res)
	}
	return err
}

func (s *FallbackStore) recordSuccess(ctx context.Context) {
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "result cache recovered, leaving fallback",
			"breaker", s.breaker.Name(),
		)
	}
}

func (s *FallbackStore) recordFailure(ctx context.Context, err error) bool {
	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "result cache degraded, using in-memory fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	return useFallback
}
