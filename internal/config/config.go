// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package config loads service configuration from defaults, an optional YAML
// file, a .env file and environment variables, in that order of precedence
// (later wins).
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Mongo     MongoConfig     `koanf:"mongo"`
	Redis     RedisConfig     `koanf:"redis"`
	Cache     CacheConfig     `koanf:"cache"`
	Recommend RecommendConfig `koanf:"recommend"`
	Refresh   RefreshConfig   `koanf:"refresh"`
	Events    EventsConfig    `koanf:"events"`
	Archive   ArchiveConfig   `koanf:"archive"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// MongoConfig points at the catalog and opinion collections.
type MongoConfig struct {
	URI                string        `koanf:"uri"`
	MoviesDB           string        `koanf:"movies_db"`
	MoviesCollection   string        `koanf:"movies_collection"`
	OpinionsDB         string        `koanf:"opinions_db"`
	OpinionsCollection string        `koanf:"opinions_collection"`
	ConnectTimeout     time.Duration `koanf:"connect_timeout"`

	// HistoryTimeout bounds the per-request user history read.
	// Bulk loads are not bounded.
	HistoryTimeout time.Duration `koanf:"history_timeout"`

	// Circuit breaker around store reads.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// RedisConfig configures the shared response cache. Disabled by default.
type RedisConfig struct {
	Enabled     bool          `koanf:"enabled"`
	URL         string        `koanf:"url"`
	KeyPrefix   string        `koanf:"key_prefix"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

// CacheConfig configures response caching.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	TTL        time.Duration `koanf:"ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

// RecommendConfig exposes the engine knobs that operators tune.
// The full set of blend weights lives in recommend.Config.
type RecommendConfig struct {
	CatalogLimit   int     `koanf:"catalog_limit"` // 0 = whole catalog
	MaxFeatures    int     `koanf:"max_features"`
	TopCast        int     `koanf:"top_cast"`
	ClickWeight    float64 `koanf:"click_weight"`
	RatingWeight   float64 `koanf:"rating_weight"`
	ExternalWeight float64 `koanf:"external_weight"`
	VotePercentile float64 `koanf:"vote_percentile"`
	LikedLimit     int     `koanf:"liked_limit"`
	LikedThreshold float64 `koanf:"liked_threshold"`
	DefaultN       int     `koanf:"default_n"`
	MaxN           int     `koanf:"max_n"`

	// LazyLoad builds the snapshot on the first query when no build has run.
	LazyLoad bool `koanf:"lazy_load"`
}

// RefreshConfig drives scheduled and manual rebuilds.
type RefreshConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval"` // 0 disables the schedule

	// MinInterval throttles POST /recommendations/refresh.
	MinInterval time.Duration `koanf:"min_interval"`
}

// EventsConfig enables rebuilds triggered by opinion events on NATS.
type EventsConfig struct {
	Enabled     bool          `koanf:"enabled"`
	NATSURL     string        `koanf:"nats_url"`
	Subject     string        `koanf:"subject"`
	QueueGroup  string        `koanf:"queue_group"`
	DurableName string        `koanf:"durable_name"`
	Debounce    time.Duration `koanf:"debounce"`
	// MaxWait caps how long a steady stream of events can postpone a rebuild.
	MaxWait time.Duration `koanf:"max_wait"`
	// JetStream consumes a durable stream instead of a core NATS queue subscription.
	JetStream bool   `koanf:"jetstream"`
	Stream    string `koanf:"stream"`
}

// ArchiveConfig enables the on-disk copy of the last loaded data.
type ArchiveConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller adds file:line to entries.
	Caller bool `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsProduction reports whether the environment is production.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}
