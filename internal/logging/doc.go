// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package logging provides the service-wide zerolog logger.
//
// Output is JSON by default and human-readable console output when
// LOG_FORMAT=console. Init configures the global logger once at startup;
// package-level helpers (Info, Warn, Error, Err) write through it.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("movie_id", id).Msg("Similar movies computed")
//
// # Context
//
// Request and correlation IDs travel in the context and are attached to
// loggers returned by Ctx:
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.Ctx(ctx).Warn().Err(err).Msg("History lookup failed")
//
// # slog Bridge
//
// NewSlogLogger returns a *slog.Logger backed by the zerolog logger. The
// suture supervisor tree logs through it so restarts and failures land in
// the same stream as request logs.
//
// # Testing
//
// NewTestLogger writes to the given writer so tests can assert on output.
package logging
