// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package main

import (
	"github.com/giuliagiacomodonato/dcicflix/internal/config"
	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// buildEngineConfig overlays the operator-facing settings on the engine
// defaults. Zero values keep the default.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()
	rc := cfg.Recommend

	if rc.MaxFeatures > 0 {
		ec.Text.MaxFeatures = rc.MaxFeatures
	}
	if rc.TopCast > 0 {
		ec.Text.TopCast = rc.TopCast
	}
	if rc.ClickWeight > 0 || rc.RatingWeight > 0 {
		ec.Interaction.Click = rc.ClickWeight
		ec.Interaction.Rating = rc.RatingWeight
	}
	if rc.ExternalWeight > 0 {
		ec.Quality.External = rc.ExternalWeight
	}
	if rc.VotePercentile > 0 {
		ec.Quality.VotePercentile = rc.VotePercentile
	}
	if rc.LikedLimit > 0 {
		ec.Personal.LikedLimit = rc.LikedLimit
	}
	if rc.LikedThreshold > 0 {
		ec.Personal.LikedThreshold = rc.LikedThreshold
	}

	ec.Limits.CatalogLimit = rc.CatalogLimit
	if rc.DefaultN > 0 {
		ec.Limits.DefaultN = rc.DefaultN
	}
	if rc.MaxN > 0 {
		ec.Limits.MaxN = rc.MaxN
	}
	if cfg.Mongo.HistoryTimeout > 0 {
		ec.Limits.HistoryTimeout = cfg.Mongo.HistoryTimeout
	}
	return ec
}
