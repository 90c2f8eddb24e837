// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package services adapts application components to suture.Service.
//
//   - HTTPServerService runs an *http.Server and shuts it down gracefully.
//   - RefreshService loads the first snapshot (retrying with backoff) and
//     rebuilds it every Refresh.Interval.
//
// The opinion listener and its debouncer implement suture.Service
// themselves and live in the eventprocessor package.
package services
