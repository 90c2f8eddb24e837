// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("defaults validate", func(t *testing.T) {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}
	})

	t.Run("weight groups sum to 1", func(t *testing.T) {
		sums := map[string]float64{
			"interaction": cfg.Interaction.Click + cfg.Interaction.Rating,
			"similar":     cfg.Similar.Cosine + cfg.Similar.Rating + cfg.Similar.Interaction,
			"top":         cfg.Top.Quality + cfg.Top.Interaction,
			"personal":    cfg.Personal.Similarity + cfg.Personal.Rating + cfg.Personal.Interaction,
			"genre":       cfg.Genre.Quality + cfg.Genre.Interaction,
		}
		for name, sum := range sums {
			if math.Abs(sum-1) > 1e-9 {
				t.Errorf("%s weights sum = %f, want 1", name, sum)
			}
		}
	})

	t.Run("limits", func(t *testing.T) {
		if cfg.Limits.DefaultN != 10 || cfg.Limits.MaxN != 100 {
			t.Errorf("limits = %d/%d, want 10/100", cfg.Limits.DefaultN, cfg.Limits.MaxN)
		}
		if cfg.Limits.CatalogLimit != 0 {
			t.Errorf("CatalogLimit = %d, want 0 (everything)", cfg.Limits.CatalogLimit)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid default config", func(c *Config) {}, false},
		{"negative max features", func(c *Config) { c.Text.MaxFeatures = -1 }, true},
		{"negative top cast", func(c *Config) { c.Text.TopCast = -1 }, true},
		{"negative click weight", func(c *Config) { c.Interaction.Click = -0.1 }, true},
		{"external weight above 1", func(c *Config) { c.Quality.External = 1.5 }, true},
		{"vote percentile below 0", func(c *Config) { c.Quality.VotePercentile = -0.5 }, true},
		{"vote percentile of 1", func(c *Config) { c.Quality.VotePercentile = 1 }, false},
		{"negative cosine weight", func(c *Config) { c.Similar.Cosine = -1 }, true},
		{"zero pool factor", func(c *Config) { c.Similar.PoolFactor = 0 }, true},
		{"negative top weight", func(c *Config) { c.Top.Quality = -1 }, true},
		{"zero liked limit", func(c *Config) { c.Personal.LikedLimit = 0 }, true},
		{"liked threshold above 5", func(c *Config) { c.Personal.LikedThreshold = 6 }, true},
		{"missing rating above 5", func(c *Config) { c.Genre.MissingRating = 10 }, true},
		{"negative genre click weight", func(c *Config) { c.Genre.ClickWeight = -1 }, true},
		{"negative catalog limit", func(c *Config) { c.Limits.CatalogLimit = -1 }, true},
		{"zero default n", func(c *Config) { c.Limits.DefaultN = 0 }, true},
		{"max n below default", func(c *Config) { c.Limits.MaxN = 5; c.Limits.DefaultN = 10 }, true},
		{"zero history timeout", func(c *Config) { c.Limits.HistoryTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	orig := DefaultConfig()
	cp := orig.Clone()

	cp.Top.Quality = 0.9
	cp.Limits.HistoryTimeout = time.Minute

	if orig.Top.Quality != 0.3 {
		t.Errorf("original Top.Quality changed to %f", orig.Top.Quality)
	}
	if orig.Limits.HistoryTimeout != 3*time.Second {
		t.Errorf("original HistoryTimeout changed to %v", orig.Limits.HistoryTimeout)
	}
}

func TestConfig_ClampN(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		n, want int
	}{
		{-1, 10},
		{0, 10},
		{1, 1},
		{25, 25},
		{100, 100},
		{1000, 100},
	}
	for _, tt := range tests {
		if got := cfg.clampN(tt.n); got != tt.want {
			t.Errorf("clampN(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestConfig_JSONRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limits.CatalogLimit = 500

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Config
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, *cfg)
	}
}
