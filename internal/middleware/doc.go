// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

/*
Package middleware provides the HTTP middleware of the recommendation API.

Components:

  - RequestID: X-Request-ID propagation and logging context
  - AccessLog: one structured zerolog line per request
  - PrometheusMetrics: request count, latency and in-flight gauge, labeled
    by chi route pattern
  - Compression: gzip for clients that accept it

All middleware uses the func(http.HandlerFunc) http.HandlerFunc shape; the
api package adapts it for chi's r.Use.

Order in the router:

	RequestID -> AccessLog -> (CORS, rate limit) -> PrometheusMetrics -> Compression -> handler

RequestID must run before AccessLog so that access lines carry the IDs.
*/
package middleware
