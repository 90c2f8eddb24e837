// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/cache"
	"github.com/giuliagiacomodonato/dcicflix/internal/config"
	"github.com/giuliagiacomodonato/dcicflix/internal/database"
	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// dataStores holds the engine's data sources and what must be closed.
type dataStores struct {
	mongo        *database.Client
	archive      *database.Archive
	catalog      recommend.CatalogStore
	interactions recommend.InteractionStore
	logger       zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is passed by value
func initStores(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*dataStores, error) {
	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	s := &dataStores{
		mongo:        client,
		catalog:      database.NewMovieStore(client),
		interactions: database.NewOpinionStore(client),
		logger:       logger,
	}

	if cfg.Archive.Enabled {
		archive, err := database.OpenArchive(cfg.Archive.Path)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open archive: %w", err)
		}
		s.archive = archive
		s.catalog = database.NewFallbackCatalog(s.catalog, archive, logger)
		s.interactions = database.NewFallbackInteractions(s.interactions, archive, logger)
		logger.Info().Str("path", cfg.Archive.Path).Msg("Archive fallback enabled")
	}
	return s, nil
}

// Close releases the archive and the Mongo client.
func (s *dataStores) Close() {
	if s.archive != nil {
		if err := s.archive.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing archive")
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.mongo.Close(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Error closing MongoDB client")
	}
}

// responseCache is the optional response cache with its Redis tier.
type responseCache struct {
	layered *cache.Layered
	redis   *cache.RedisCache
	logger  zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is passed by value
func initCache(cfg *config.Config, logger zerolog.Logger) (*responseCache, error) {
	rc := &responseCache{logger: logger}
	if !cfg.Cache.Enabled {
		logger.Info().Msg("Response cache disabled")
		return rc, nil
	}

	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(cfg.Redis, cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("create redis cache: %w", err)
		}
		rc.redis = redisCache
	}
	rc.layered = cache.NewLayered(cache.NewLRUCache(cfg.Cache.MaxEntries, cfg.Cache.TTL), rc.redis)
	logger.Info().
		Int("max_entries", cfg.Cache.MaxEntries).
		Dur("ttl", cfg.Cache.TTL).
		Bool("redis", rc.redis != nil).
		Msg("Response cache enabled")
	return rc, nil
}

// Store returns the cache for the API, or nil when caching is disabled.
func (c *responseCache) Store() cache.Store {
	if c.layered == nil {
		return nil
	}
	return c.layered
}

// Close closes the Redis client if one was opened.
func (c *responseCache) Close() {
	if c.redis == nil {
		return
	}
	if err := c.redis.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Error closing Redis client")
	}
}
