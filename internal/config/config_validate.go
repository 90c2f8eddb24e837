// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateMongo,
		c.validateRedis,
		c.validateCache,
		c.validateRecommend,
		c.validateRefresh,
		c.validateEvents,
		c.validateArchive,
		c.validateSecurity,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("server.environment must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateMongo() error {
	if !strings.HasPrefix(c.Mongo.URI, "mongodb://") && !strings.HasPrefix(c.Mongo.URI, "mongodb+srv://") {
		return fmt.Errorf("mongo.uri must start with mongodb:// or mongodb+srv://")
	}
	if c.Mongo.MoviesDB == "" || c.Mongo.MoviesCollection == "" {
		return fmt.Errorf("mongo.movies_db and mongo.movies_collection are required")
	}
	if c.Mongo.OpinionsDB == "" || c.Mongo.OpinionsCollection == "" {
		return fmt.Errorf("mongo.opinions_db and mongo.opinions_collection are required")
	}
	if c.Mongo.HistoryTimeout <= 0 {
		return fmt.Errorf("mongo.history_timeout must be positive, got %v", c.Mongo.HistoryTimeout)
	}
	if c.Mongo.BreakerFailures == 0 {
		return fmt.Errorf("mongo.breaker_failures must be positive")
	}
	return nil
}

func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	u, err := url.Parse(c.Redis.URL)
	if err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
		return fmt.Errorf("redis.url must be a redis:// or rediss:// URL when redis is enabled")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.CatalogLimit < 0 {
		return fmt.Errorf("recommend.catalog_limit must be non-negative, got %d", r.CatalogLimit)
	}
	if r.MaxFeatures < 1 {
		return fmt.Errorf("recommend.max_features must be positive, got %d", r.MaxFeatures)
	}
	if r.TopCast < 0 {
		return fmt.Errorf("recommend.top_cast must be non-negative, got %d", r.TopCast)
	}
	if r.ClickWeight < 0 || r.RatingWeight < 0 {
		return fmt.Errorf("recommend.click_weight and recommend.rating_weight must be non-negative")
	}
	if r.ExternalWeight < 0 || r.ExternalWeight > 1 {
		return fmt.Errorf("recommend.external_weight must be in [0, 1], got %f", r.ExternalWeight)
	}
	if r.VotePercentile < 0 || r.VotePercentile > 1 {
		return fmt.Errorf("recommend.vote_percentile must be in [0, 1], got %f", r.VotePercentile)
	}
	if r.LikedLimit < 1 {
		return fmt.Errorf("recommend.liked_limit must be positive, got %d", r.LikedLimit)
	}
	if r.LikedThreshold < 0 || r.LikedThreshold > 5 {
		return fmt.Errorf("recommend.liked_threshold must be in [0, 5], got %f", r.LikedThreshold)
	}
	if r.DefaultN < 1 {
		return fmt.Errorf("recommend.default_n must be positive, got %d", r.DefaultN)
	}
	if r.MaxN < r.DefaultN {
		return fmt.Errorf("recommend.max_n must be >= recommend.default_n, got %d < %d", r.MaxN, r.DefaultN)
	}
	return nil
}

func (c *Config) validateRefresh() error {
	if c.Refresh.Interval < 0 {
		return fmt.Errorf("refresh.interval must be non-negative, got %v", c.Refresh.Interval)
	}
	if c.Refresh.MinInterval < 0 {
		return fmt.Errorf("refresh.min_interval must be non-negative, got %v", c.Refresh.MinInterval)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if !c.Events.Enabled {
		return nil
	}
	if !strings.HasPrefix(c.Events.NATSURL, "nats://") && !strings.HasPrefix(c.Events.NATSURL, "tls://") {
		return fmt.Errorf("events.nats_url must start with nats:// or tls://")
	}
	if c.Events.Subject == "" {
		return fmt.Errorf("events.subject is required when events are enabled")
	}
	if c.Events.Debounce < 0 {
		return fmt.Errorf("events.debounce must be non-negative, got %v", c.Events.Debounce)
	}
	if c.Events.MaxWait < 0 {
		return fmt.Errorf("events.max_wait must be non-negative, got %v", c.Events.MaxWait)
	}
	if c.Events.JetStream && c.Events.Stream == "" && strings.ContainsAny(c.Events.Subject, ".*>") {
		return fmt.Errorf("events.stream is required when the JetStream subject %q is not a valid stream name", c.Events.Subject)
	}
	return nil
}

func (c *Config) validateArchive() error {
	if c.Archive.Enabled && c.Archive.Path == "" {
		return fmt.Errorf("archive.path is required when the archive is enabled")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}
