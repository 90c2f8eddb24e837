// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for integration tests.
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./...
//
// # MongoDB
//
//	func TestMovieStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mongo.Container)
//	    // connect to mongo.URI
//	}
//
// # NATS
//
// NewNATSContainer starts a JetStream-enabled server for the opinion event
// subscriber.
//
// Tests are skipped gracefully when Docker is unavailable or -short is set.
package testinfra
