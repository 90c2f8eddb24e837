// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package recommend implements the hybrid movie recommendation engine.
//
// # Architecture
//
// The engine builds an immutable Snapshot from two read-only stores, the
// movie catalog and the interaction log (clicks and ratings):
//
//   - Feature/similarity: bag-of-words cosine similarity over each movie's
//     title, genres, directors, top cast and plot (package text)
//   - Interaction aggregates: clicks, rating sum, count and average per item
//   - Quality: combined external/user rating and the IMDb weighted rating
//
// Five rankings read the active snapshot:
//
//   - SimilarTo: content neighbours of a title, optionally blended with
//     quality and engagement
//   - TopRated: weighted rating plus interaction score, with genre filter
//   - PersonalizedFor: neighbours of the user's best-rated movies, falling
//     back to TopRated for users without qualifying ratings
//   - FavoriteGenreOf / RecommendByFavoriteGenre: genre inferred from the
//     user's interactions
//   - UnfinishedFor: movies clicked but never rated
//
// # Lifecycle
//
// Builds are single-flight per epoch. Triggers that arrive before a build
// reads its inputs join it. Triggers that arrive later share one queued
// follow-up build, so new opinions and a new Load limit are never dropped.
// EnsureLoaded joins whatever build is running. A successful build is
// published with one atomic pointer swap; a failed build leaves the previous
// snapshot serving and returns a *DataError to every waiter. Queries before
// the first successful build return ErrDataUnavailable.
//
// Each snapshot carries a Generation, counted per process, and an ID that is
// unique per build across processes. WithSnapshot pins queries to a given
// snapshot.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), movies, opinions, logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Load(ctx, 0); err != nil {
//	    return err
//	}
//	list, err := engine.SimilarTo(ctx, "Toy Story", 10, recommend.SimilarOptions{
//	    SelfExclude:     true,
//	    UseInteractions: true,
//	})
//
// # Thread Safety
//
// All Engine methods are safe for concurrent use. Rankings are pure reads of
// one snapshot generation and run in parallel with each other and with a
// rebuild.
package recommend
