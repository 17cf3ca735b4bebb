//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"mixconc/internal/mixture"
	"mixconc/internal/mixture/cache"
	"mixconc/internal/mixture/units"
	"mixconc/pkg/platform/sentinel"
	"mixconc/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = cache.NewRedisStore(s.redis.Client, time.Minute)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestComputedResultRoundTrip() {
	ctx := context.Background()
	req := mixture.Request{
		MassUnit:          units.Gram,
		VolumeUnit:        units.Milliliter,
		ConcentrationUnit: units.GramPerLiter,
		TemperatureC:      22,
		Components: []mixture.Component{
			{Concentration: 0, DeclaredMass: 60, Density: 1},
			{Concentration: 100, DeclaredMass: 48, Density: 1.2},
		},
	}
	res, err := mixture.Compute(req)
	s.Require().NoError(err)

	key := mixture.CacheKey(req)
	s.Require().NoError(s.store.Set(ctx, key, res))

	found, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.Equal(res, found)
}

func (s *RedisStoreSuite) TestMissIsNotFound() {
	_, err := s.store.Get(context.Background(), "mixconc:result:absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestEntriesCarryTTL() {
	ctx := context.Background()
	s.Require().NoError(s.store.Set(ctx, "mixconc:result:ttl", &mixture.Result{Mode: mixture.ModeDirect}))

	ttl, err := s.redis.Client.TTL(ctx, "mixconc:result:ttl").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
