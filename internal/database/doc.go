// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package database implements the recommendation engine's stores.
//
// # Stores
//
//   - MovieStore reads the movie catalog from MongoDB (peliculas.movies by
//     default) and implements recommend.CatalogStore.
//   - OpinionStore reads the click and rating log from MongoDB
//     (opiniones.opinions by default) and implements recommend.InteractionStore.
//   - Archive keeps the last successfully loaded catalog and log in BadgerDB.
//   - FallbackCatalog and FallbackInteractions put an Archive behind a
//     primary store: successful loads are archived, failed loads are served
//     from the archive.
//
// Every Mongo read runs behind a circuit breaker (internal/breaker) and is
// recorded in the store_* Prometheus metrics.
//
// # Documents
//
// Movie documents follow the catalog import format:
//
//	{_id, title, year, genres[], directors[], cast[], plot, poster,
//	 imdb: {rating, votes}}
//
// Opinion documents follow the opinion consumer format:
//
//	{userId, movieId, movieTitle, type: "click"|"rating", rating, timestamp}
//
// Numeric fields are decoded leniently: int32, int64, double and numeric
// strings are accepted, since imports have stored all of them. Documents
// that cannot be converted are skipped and counted in
// store_documents_skipped_total.
//
// # Integration Tests
//
// mongo_integration_test.go runs the stores against a real MongoDB started
// by internal/testinfra:
//
//	go test -tags integration ./internal/database/...
package database
