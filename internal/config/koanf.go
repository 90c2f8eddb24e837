// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dcicflix/config.yaml",
	"/etc/dcicflix/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPath is the .env file read before environment variables are mapped.
var DotEnvPath = ".env"

// defaultConfig returns the built-in defaults. They match the original
// deployment (port 3005, databases peliculas and opiniones).
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3005,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Mongo: MongoConfig{
			URI:                "mongodb://localhost:27017",
			MoviesDB:           "peliculas",
			MoviesCollection:   "movies",
			OpinionsDB:         "opiniones",
			OpinionsCollection: "opinions",
			ConnectTimeout:     10 * time.Second,
			HistoryTimeout:     3 * time.Second,
			BreakerFailures:    5,
			BreakerTimeout:     30 * time.Second,
		},
		Redis: RedisConfig{
			Enabled:     false,
			URL:         "redis://localhost:6379/0",
			KeyPrefix:   "dcicflix:",
			DialTimeout: 2 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
		Recommend: RecommendConfig{
			CatalogLimit:   0,
			MaxFeatures:    5000,
			TopCast:        5,
			ClickWeight:    0.3,
			RatingWeight:   0.7,
			ExternalWeight: 0.6,
			VotePercentile: 0.85,
			LikedLimit:     5,
			LikedThreshold: 3.5,
			DefaultN:       10,
			MaxN:           100,
			LazyLoad:       true,
		},
		Refresh: RefreshConfig{
			OnStartup:   true,
			Interval:    30 * time.Minute,
			MinInterval: 10 * time.Second,
		},
		Events: EventsConfig{
			Enabled:     false,
			NATSURL:     "nats://127.0.0.1:4222",
			Subject:     "opinions.created",
			QueueGroup:  "recommender",
			DurableName: "recommender",
			Debounce:    30 * time.Second,
			MaxWait:     5 * time.Minute,
		},
		Archive: ArchiveConfig{
			Enabled: false,
			Path:    "/data/archive",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in layers:
//  1. built-in defaults
//  2. optional YAML file (CONFIG_PATH or DefaultConfigPaths)
//  3. .env file, then environment variables
//
// The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// godotenv never overrides variables already set in the environment.
	if err := godotenv.Load(DotEnvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvPath, err)
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config keys.
// MONGODB_URL, DB_NAME, OPINIONES_DB and PORT keep the names the original
// services were deployed with.
var envMappings = map[string]string{
	// Server
	"port":                  "server.port",
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Mongo
	"mongodb_url":              "mongo.uri",
	"mongodb_uri":              "mongo.uri",
	"db_name":                  "mongo.movies_db",
	"movies_collection":        "mongo.movies_collection",
	"opiniones_db":             "mongo.opinions_db",
	"opinions_collection":      "mongo.opinions_collection",
	"mongodb_connect_timeout":  "mongo.connect_timeout",
	"mongodb_history_timeout":  "mongo.history_timeout",
	"mongodb_breaker_failures": "mongo.breaker_failures",
	"mongodb_breaker_timeout":  "mongo.breaker_timeout",

	// Redis and caching
	"redis_enabled":      "redis.enabled",
	"redis_url":          "redis.url",
	"redis_key_prefix":   "redis.key_prefix",
	"redis_dial_timeout": "redis.dial_timeout",
	"cache_enabled":      "cache.enabled",
	"cache_ttl":          "cache.ttl",
	"cache_max_entries":  "cache.max_entries",

	// Engine
	"recommend_catalog_limit":   "recommend.catalog_limit",
	"recommend_max_features":    "recommend.max_features",
	"recommend_top_cast":        "recommend.top_cast",
	"recommend_click_weight":    "recommend.click_weight",
	"recommend_rating_weight":   "recommend.rating_weight",
	"recommend_external_weight": "recommend.external_weight",
	"recommend_vote_percentile": "recommend.vote_percentile",
	"recommend_liked_limit":     "recommend.liked_limit",
	"recommend_liked_threshold": "recommend.liked_threshold",
	"recommend_default_n":       "recommend.default_n",
	"recommend_max_n":           "recommend.max_n",
	"recommend_lazy_load":       "recommend.lazy_load",

	// Refresh
	"refresh_on_startup":   "refresh.on_startup",
	"refresh_interval":     "refresh.interval",
	"refresh_min_interval": "refresh.min_interval",

	// Events
	"events_enabled":      "events.enabled",
	"nats_url":            "events.nats_url",
	"events_subject":      "events.subject",
	"events_queue_group":  "events.queue_group",
	"events_durable_name": "events.durable_name",
	"events_debounce":     "events.debounce",
	"events_max_wait":     "events.max_wait",
	"events_jetstream":    "events.jetstream",
	"events_stream":       "events.stream",

	// Archive
	"archive_enabled": "archive.enabled",
	"archive_path":    "archive.path",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to its config key. Unknown
// variables map to "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
