package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"mixconc/internal/mixture"
	"mixconc/pkg/platform/sentinel"
)

type entry struct {
	result    mixture.Result
	expiresAt time.Time
}

// InMemoryStore is a TTL result cache for single-instance deployments and the
// fallback behind Redis.
type InMemoryStore struct {
	mu         sync.RWMutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewInMemoryStore creates a store whose entries expire after ttl. Once
// maxEntries is reached, expired entries are purged and, if still full, the
// store is cleared.
func NewInMemoryStore(ttl time.Duration, maxEntries int) *InMemoryStore {
	return &InMemoryStore{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *InMemoryStore) Get(_ context.Context, key string) (*mixture.Result, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, sentinel.ErrNotFound
	}
	return clone(e.result), nil
}

func (s *InMemoryStore) Set(_ context.Context, key string, res *mixture.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.maxEntries > 0 && len(s.entries) >= s.maxEntries {
		for k, e := range s.entries {
			if !now.Before(e.expiresAt) {
				delete(s.entries, k)
			}
		}
		if len(s.entries) >= s.maxEntries {
			clear(s.entries)
		}
	}
	s.entries[key] = entry{result: *clone(*res), expiresAt: now.Add(s.ttl)}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// clone copies res so callers never share the stored component slice.
func clone(res mixture.Result) *mixture.Result {
	res.Components = slices.Clone(res.Components)
	return &res
}
