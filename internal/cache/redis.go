// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/giuliagiacomodonato/dcicflix/internal/breaker"
	"github.com/giuliagiacomodonato/dcicflix/internal/config"
	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
)

// RedisCache is the shared response cache. Redis failures are logged and
// read as misses; they never fail a request.
type RedisCache struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	breaker *breaker.Breaker
}

// NewRedisCache creates a cache from cfg. It does not contact the server;
// use Ping to check connectivity.
func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
		opts.ReadTimeout = cfg.DialTimeout
		opts.WriteTimeout = cfg.DialTimeout
	}
	return newRedisCache(redis.NewClient(opts), cfg.KeyPrefix, ttl), nil
}

func newRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client:  client,
		prefix:  prefix,
		ttl:     ttl,
		breaker: breaker.New(breaker.Settings{Name: "redis", ConsecutiveFailures: 3, Timeout: 15 * time.Second}),
	}
}

// Get returns the value for key. ok is false on a miss or any failure.
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := breaker.Execute(r.breaker, func() ([]byte, error) {
		b, err := r.client.Get(ctx, r.prefix+key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		if !breaker.IsRejected(err) {
			logging.Debug().Err(err).Str("key", key).Msg("Redis get failed")
		}
		return nil, false
	}
	return val, val != nil
}

// Set stores value under key with the cache TTL. Failures are logged.
func (r *RedisCache) Set(ctx context.Context, key string, value []byte) {
	err := r.breaker.Do(func() error {
		return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
	})
	if err != nil && !breaker.IsRejected(err) {
		logging.Debug().Err(err).Str("key", key).Msg("Redis set failed")
	}
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// BreakerState reports the circuit state for health output.
func (r *RedisCache) BreakerState() string {
	return r.breaker.State()
}

// Close closes the client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
