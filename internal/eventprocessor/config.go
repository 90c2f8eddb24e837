// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/giuliagiacomodonato/dcicflix/internal/config"
)

// Config holds the subscription and debounce settings for opinion events.
type Config struct {
	URL         string
	Subject     string
	QueueGroup  string
	DurableName string

	// Debounce is the quiet period after the last event before a rebuild.
	Debounce time.Duration
	// MaxWait bounds the delay between the first pending event and the rebuild.
	// Zero disables the bound.
	MaxWait time.Duration

	// JetStream switches from a core NATS queue subscription to a durable
	// JetStream consumer. Stream binds the consumer to an existing stream;
	// when empty the stream is provisioned and named after Subject.
	JetStream bool
	Stream    string

	SubscribersCount int
	AckWaitTimeout   time.Duration
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
	MaxDeliver       int
	MaxAckPending    int

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
}

// DefaultConfig returns the defaults used when the configuration omits a value.
func DefaultConfig() Config {
	return Config{
		URL:                  "nats://127.0.0.1:4222",
		Subject:              "opinions.created",
		QueueGroup:           "recommender",
		DurableName:          "recommender",
		Debounce:             30 * time.Second,
		MaxWait:              5 * time.Minute,
		SubscribersCount:     1,
		AckWaitTimeout:       30 * time.Second,
		CloseTimeout:         10 * time.Second,
		MaxReconnects:        -1,
		ReconnectWait:        2 * time.Second,
		MaxDeliver:           5,
		MaxAckPending:        256,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
	}
}

// ConfigFromEvents maps the application events section onto Config.
func ConfigFromEvents(ec config.EventsConfig) Config {
	cfg := DefaultConfig()
	if ec.NATSURL != "" {
		cfg.URL = ec.NATSURL
	}
	if ec.Subject != "" {
		cfg.Subject = ec.Subject
	}
	if ec.QueueGroup != "" {
		cfg.QueueGroup = ec.QueueGroup
	}
	if ec.DurableName != "" {
		cfg.DurableName = ec.DurableName
	}
	cfg.Debounce = ec.Debounce
	cfg.MaxWait = ec.MaxWait
	cfg.JetStream = ec.JetStream
	cfg.Stream = ec.Stream
	return cfg
}

// Validate reports settings the subscriber cannot start with.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("nats url is required")
	}
	if c.Subject == "" {
		return fmt.Errorf("subject is required")
	}
	if c.Debounce < 0 || c.MaxWait < 0 {
		return fmt.Errorf("debounce and max wait must be non-negative")
	}
	if c.SubscribersCount < 1 {
		return fmt.Errorf("subscribers count must be at least 1, got %d", c.SubscribersCount)
	}
	return nil
}
