package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr       string
	LogLevel   slog.Level
	AppVersion string

	Redis RedisConfig
	Cache CacheConfig
	Batch BatchConfig
}

// RedisConfig configures the optional Redis result cache. An empty URL
// disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CacheConfig configures the result cache. A zero TTL disables caching.
type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

// BatchConfig bounds batch computations.
type BatchConfig struct {
	Concurrency int
	MaxSize     int
}

// Enabled reports whether results should be cached at all.
func (c CacheConfig) Enabled() bool {
	return c.TTL > 0
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	cfg := Server{
		Addr:       envOr("MIXCONC_ADDR", ":8080"),
		AppVersion: envOr("APP_VERSION", "v1.2"),
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		return Server{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	var err error
	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"REDIS_POOL_SIZE", 10, &cfg.Redis.PoolSize},
		{"REDIS_MIN_IDLE_CONNS", 2, &cfg.Redis.MinIdleConns},
		{"RESULT_CACHE_MAX_ENTRIES", 10000, &cfg.Cache.MaxEntries},
		{"BATCH_CONCURRENCY", 4, &cfg.Batch.Concurrency},
		{"MAX_BATCH_SIZE", 50, &cfg.Batch.MaxSize},
	}
	for _, v := range ints {
		if *v.dest, err = envInt(v.key, v.def); err != nil {
			return Server{}, err
		}
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"REDIS_DIAL_TIMEOUT", 5 * time.Second, &cfg.Redis.DialTimeout},
		{"REDIS_READ_TIMEOUT", 3 * time.Second, &cfg.Redis.ReadTimeout},
		{"REDIS_WRITE_TIMEOUT", 3 * time.Second, &cfg.Redis.WriteTimeout},
		{"RESULT_CACHE_TTL", 10 * time.Minute, &cfg.Cache.TTL},
	}
	for _, v := range durations {
		if *v.dest, err = envDuration(v.key, v.def); err != nil {
			return Server{}, err
		}
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s: expected a non-negative integer, got %q", key, raw)
	}
	return v, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s: expected a non-negative duration, got %q", key, raw)
	}
	return v, nil
}
