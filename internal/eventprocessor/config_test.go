// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package eventprocessor

import (
	"testing"
	"time"

	"github.com/giuliagiacomodonato/dcicflix/internal/config"
)

func TestConfigFromEvents(t *testing.T) {
	t.Parallel()

	cfg := ConfigFromEvents(config.EventsConfig{
		NATSURL:   "nats://bus:4222",
		Subject:   "opinions.created",
		Debounce:  5 * time.Second,
		MaxWait:   time.Minute,
		JetStream: true,
		Stream:    "OPINIONS",
	})
	if cfg.URL != "nats://bus:4222" || cfg.Stream != "OPINIONS" || !cfg.JetStream {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.QueueGroup != "recommender" || cfg.DurableName != "recommender" {
		t.Errorf("queue group/durable defaults not applied: %+v", cfg)
	}
	if cfg.Debounce != 5*time.Second || cfg.MaxWait != time.Minute {
		t.Errorf("Debounce/MaxWait = %v/%v", cfg.Debounce, cfg.MaxWait)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"missing url", func(c *Config) { c.URL = "" }, true},
		{"missing subject", func(c *Config) { c.Subject = "" }, true},
		{"negative debounce", func(c *Config) { c.Debounce = -time.Second }, true},
		{"no subscribers", func(c *Config) { c.SubscribersCount = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
