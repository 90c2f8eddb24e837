// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"math"
	"sort"
)

// ScoreQuality computes combined and weighted ratings, indexed like items.
//
// The weighted rating is the IMDb Bayesian average
//
//	WR = (R*v + C*m) / (v + m)
//
// where R is the combined rating, v the total votes, C the corpus mean of R
// and m the configured quantile of total votes. Items with few votes regress
// toward C.
func ScoreQuality(items []Item, aggs []Aggregate, cfg QualityConfig) []Quality {
	n := len(items)
	out := make([]Quality, n)
	if n == 0 {
		return out
	}

	anyRated := false
	for _, a := range aggs {
		if a.RatingCount > 0 {
			anyRated = true
			break
		}
	}

	votes := make([]float64, n)
	var sum float64
	for i, it := range items {
		a := aggs[i]
		r := it.External.Rating
		if anyRated && a.RatingCount > 0 {
			r = cfg.External*it.External.Rating + (1-cfg.External)*a.AvgUserRating
		}
		v := float64(it.External.Votes) + float64(a.RatingCount) + float64(a.Clicks)

		out[i].CombinedRating = r
		out[i].TotalVotes = v
		votes[i] = v
		sum += r
	}

	c := sum / float64(n)
	m := quantile(votes, cfg.VotePercentile)

	for i := range out {
		v := out[i].TotalVotes
		if v+m == 0 {
			out[i].WeightedRating = c
			continue
		}
		out[i].WeightedRating = (out[i].CombinedRating*v + c*m) / (v + m)
	}
	return out
}

// quantile returns the p-quantile of values with linear interpolation
// between the closest ranks. values is not modified.
func quantile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// normalize divides x by peak. It returns 0 when peak is not positive.
func normalize(x, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	return x / peak
}
