// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

/*
Package config loads and validates the recommender's runtime configuration.

Configuration is layered with koanf. Later sources override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file named by CONFIG_PATH or found in DefaultConfigPaths
 3. A .env file, loaded with godotenv without overriding the environment
 4. Environment variables

# Configuration Groups

  - ServerConfig: HTTP listener, timeouts, environment name
  - MongoConfig: catalog and opinion databases, history timeout, breaker
  - RedisConfig and CacheConfig: response cache tiers
  - RecommendConfig: scoring weights, vocabulary size, result limits
  - RefreshConfig: startup load, scheduled refresh, manual throttle
  - EventsConfig: NATS opinion events and refresh debouncing
  - ArchiveConfig: Badger last-known-good archive
  - SecurityConfig: CORS origins and per-IP rate limits
  - LoggingConfig: zerolog level, format, caller

# Environment Variables

The names used by the existing deployment are accepted as-is:

	MONGODB_URL=mongodb://mongo:27017
	DB_NAME=peliculas
	OPINIONES_DB=opiniones
	PORT=3005

Every other setting has one explicit variable in envMappings, for example
RECOMMEND_MAX_N or EVENTS_DEBOUNCE. Unknown variables are ignored.
Durations use Go syntax ("30s", "5m"). CORS_ORIGINS takes a
comma-separated list.

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    return err
	}
	srv := &http.Server{Addr: cfg.Server.Addr()}

LoadWithKoanf calls Validate before returning, so a returned Config is
always usable.
*/
package config
