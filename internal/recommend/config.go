// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Text controls the content feature builder.
	Text TextConfig `json:"text"`

	// Interaction weighs clicks against ratings in the per-item interaction score.
	Interaction InteractionWeights `json:"interaction"`

	// Quality controls the combined and weighted rating.
	Quality QualityConfig `json:"quality"`

	// Similar blends similarity, quality and engagement for title queries.
	Similar SimilarWeights `json:"similar"`

	// Top blends quality and engagement for the top-rated list.
	Top TopWeights `json:"top"`

	// Personal controls personalized recommendations.
	Personal PersonalConfig `json:"personal"`

	// Genre controls favorite genre inference and ranking.
	Genre GenreConfig `json:"genre"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// TextConfig controls the feature text.
type TextConfig struct {
	// MaxFeatures keeps the most frequent terms. Default: 5000.
	MaxFeatures int `json:"max_features"`

	// TopCast is how many cast members enter the feature text. Default: 5.
	TopCast int `json:"top_cast"`

	// Workers bounds parallel similarity computation. Zero means GOMAXPROCS.
	Workers int `json:"workers"`
}

// InteractionWeights weigh the components of the interaction score.
type InteractionWeights struct {
	// Click multiplies the click count. Default: 0.3.
	Click float64 `json:"click"`

	// Rating multiplies the sum of user ratings. Default: 0.7.
	Rating float64 `json:"rating"`
}

// QualityConfig controls the quality signals.
type QualityConfig struct {
	// External is the weight of the external rating when an item also has
	// user ratings; the user average gets 1-External. Default: 0.6.
	External float64 `json:"external"`

	// VotePercentile is the quantile of total votes used as the minimum
	// vote count m of the weighted rating. Default: 0.85.
	VotePercentile float64 `json:"vote_percentile"`
}

// SimilarWeights weigh the hybrid score of title similarity queries.
type SimilarWeights struct {
	Cosine      float64 `json:"cosine"`      // Default: 0.5
	Rating      float64 `json:"rating"`      // Default: 0.3
	Interaction float64 `json:"interaction"` // Default: 0.2

	// PoolFactor is how many candidates per requested result are re-ranked.
	// Default: 3.
	PoolFactor int `json:"pool_factor"`
}

// TopWeights weigh the top-rated score.
type TopWeights struct {
	Quality     float64 `json:"quality"`     // Default: 0.3
	Interaction float64 `json:"interaction"` // Default: 0.7
}

// PersonalConfig controls personalized recommendations.
type PersonalConfig struct {
	// LikedLimit is how many top-rated items seed the candidates. Default: 5.
	LikedLimit int `json:"liked_limit"`

	// LikedThreshold is the minimum rating of a seed item. Default: 3.5.
	LikedThreshold float64 `json:"liked_threshold"`

	Similarity  float64 `json:"similarity"`  // Default: 0.6
	Rating      float64 `json:"rating"`      // Default: 0.25
	Interaction float64 `json:"interaction"` // Default: 0.15
}

// GenreConfig controls favorite genre inference and ranking.
type GenreConfig struct {
	// MissingRating stands in for a rating event without a value. Default: 3.
	MissingRating float64 `json:"missing_rating"`

	// ClickWeight is the genre weight of one click. Default: 0.2.
	ClickWeight float64 `json:"click_weight"`

	Quality     float64 `json:"quality"`     // Default: 0.8
	Interaction float64 `json:"interaction"` // Default: 0.2
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// CatalogLimit caps the catalog size at load. Zero loads everything.
	CatalogLimit int `json:"catalog_limit"`

	// DefaultN is used when a query asks for n <= 0. Default: 10.
	DefaultN int `json:"default_n"`

	// MaxN caps n. Default: 100.
	MaxN int `json:"max_n"`

	// HistoryTimeout bounds the live read of a user's history.
	// Default: 3s.
	HistoryTimeout time.Duration `json:"history_timeout"`
}

// DefaultConfig returns a Config with the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Text: TextConfig{
			MaxFeatures: 5000,
			TopCast:     5,
		},
		Interaction: InteractionWeights{
			Click:  0.3,
			Rating: 0.7,
		},
		Quality: QualityConfig{
			External:       0.6,
			VotePercentile: 0.85,
		},
		Similar: SimilarWeights{
			Cosine:      0.5,
			Rating:      0.3,
			Interaction: 0.2,
			PoolFactor:  3,
		},
		Top: TopWeights{
			Quality:     0.3,
			Interaction: 0.7,
		},
		Personal: PersonalConfig{
			LikedLimit:     5,
			LikedThreshold: 3.5,
			Similarity:     0.6,
			Rating:         0.25,
			Interaction:    0.15,
		},
		Genre: GenreConfig{
			MissingRating: 3,
			ClickWeight:   0.2,
			Quality:       0.8,
			Interaction:   0.2,
		},
		Limits: LimitsConfig{
			DefaultN:       10,
			MaxN:           100,
			HistoryTimeout: 3 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.Text.MaxFeatures < 0 {
		return fmt.Errorf("text.max_features must be non-negative, got %d", c.Text.MaxFeatures)
	}
	if c.Text.TopCast < 0 {
		return fmt.Errorf("text.top_cast must be non-negative, got %d", c.Text.TopCast)
	}

	if c.Interaction.Click < 0 || c.Interaction.Rating < 0 {
		return fmt.Errorf("interaction weights must be non-negative")
	}

	if c.Quality.External < 0 || c.Quality.External > 1 {
		return fmt.Errorf("quality.external must be in [0, 1], got %f", c.Quality.External)
	}
	if c.Quality.VotePercentile < 0 || c.Quality.VotePercentile > 1 {
		return fmt.Errorf("quality.vote_percentile must be in [0, 1], got %f", c.Quality.VotePercentile)
	}

	if c.Similar.Cosine < 0 || c.Similar.Rating < 0 || c.Similar.Interaction < 0 {
		return fmt.Errorf("similar weights must be non-negative")
	}
	if c.Similar.PoolFactor < 1 {
		return fmt.Errorf("similar.pool_factor must be positive, got %d", c.Similar.PoolFactor)
	}

	if c.Top.Quality < 0 || c.Top.Interaction < 0 {
		return fmt.Errorf("top weights must be non-negative")
	}

	if c.Personal.LikedLimit < 1 {
		return fmt.Errorf("personal.liked_limit must be positive, got %d", c.Personal.LikedLimit)
	}
	if c.Personal.LikedThreshold < 0 || c.Personal.LikedThreshold > 5 {
		return fmt.Errorf("personal.liked_threshold must be in [0, 5], got %f", c.Personal.LikedThreshold)
	}
	if c.Personal.Similarity < 0 || c.Personal.Rating < 0 || c.Personal.Interaction < 0 {
		return fmt.Errorf("personal weights must be non-negative")
	}

	if c.Genre.MissingRating < 0 || c.Genre.MissingRating > 5 {
		return fmt.Errorf("genre.missing_rating must be in [0, 5], got %f", c.Genre.MissingRating)
	}
	if c.Genre.ClickWeight < 0 || c.Genre.Quality < 0 || c.Genre.Interaction < 0 {
		return fmt.Errorf("genre weights must be non-negative")
	}

	if c.Limits.CatalogLimit < 0 {
		return fmt.Errorf("limits.catalog_limit must be non-negative, got %d", c.Limits.CatalogLimit)
	}
	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}
	if c.Limits.HistoryTimeout <= 0 {
		return fmt.Errorf("limits.history_timeout must be positive, got %v", c.Limits.HistoryTimeout)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs hold value types only.
	cp := *c
	return &cp
}

// clampN applies the default and maximum result counts.
func (c *Config) clampN(n int) int {
	if n <= 0 {
		n = c.Limits.DefaultN
	}
	if n > c.Limits.MaxN {
		n = c.Limits.MaxN
	}
	return n
}
