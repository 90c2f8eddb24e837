// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

/*
Package main runs the DCICFLIX recommendation service.

The service reads the movie catalog and user opinions from MongoDB, builds an
in-memory recommendation snapshot, and serves it over HTTP. Components run
under a Suture v4 supervisor tree:

	root ("dcicflix")
	├── data-layer
	│   └── refresh-service (startup load, scheduled rebuilds)
	├── messaging-layer (EVENTS_ENABLED=true)
	│   ├── refresh-debouncer
	│   └── opinion-listener (NATS)
	└── api-layer
	    └── http-server

Startup order:

 1. Configuration: defaults, config.yaml, .env and environment (Koanf v2)
 2. Logging: zerolog, with slog bridged in for suture and watermill
 3. Stores: MongoDB catalog and opinions, optionally backed by a BadgerDB archive
 4. Engine: recommend.Engine over the stores
 5. Response cache: in-process LRU, optionally layered over Redis
 6. HTTP: chi router with CORS, rate limiting and Prometheus metrics
 7. Supervisor tree

# Configuration

Common environment variables:

	MONGODB_URL=mongodb://localhost:27017
	PORT=3005
	REDIS_ENABLED=true REDIS_URL=redis://localhost:6379/0
	EVENTS_ENABLED=true NATS_URL=nats://localhost:4222
	ARCHIVE_ENABLED=true ARCHIVE_PATH=/data/archive
	LOG_LEVEL=debug LOG_FORMAT=console

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
HTTP_SHUTDOWN_TIMEOUT, then stores and caches are closed.
*/
package main
