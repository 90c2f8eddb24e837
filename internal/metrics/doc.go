// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

/*
Package metrics provides Prometheus metrics for the recommendation service.

Metrics are registered on the default registry with promauto and exposed at
/metrics in Prometheus text format:

	curl http://localhost:3005/metrics

# Available Metrics

Snapshot Metrics:
  - recommend_snapshot_build_duration_seconds: Build latency (histogram)
    Labels: status (success, error)
  - recommend_snapshot_items: Items in the active snapshot (gauge)
  - recommend_snapshot_events: Events aggregated into the active snapshot (gauge)
  - recommend_snapshot_vocabulary_terms: Vocabulary size (gauge)
  - recommend_snapshot_generation: Active generation (gauge)
  - recommend_snapshot_last_success_timestamp: Unix time of last good build (gauge)

Query Metrics:
  - recommend_queries_total: Queries (counter)
    Labels: operation, outcome
  - recommend_query_duration_seconds: Query latency (histogram)
    Labels: operation
  - recommend_history_fallbacks_total: Live history reads that fell back to
    the snapshot (counter)

Store Metrics:
  - store_read_duration_seconds: Read latency (histogram)
    Labels: store (movies, opinions, archive), operation
  - store_read_errors_total: Failed reads (counter)
    Labels: store, operation, error_type
  - store_documents_skipped_total: Undecodable documents (counter)
    Labels: store

HTTP Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - api_rate_limit_hits_total

Cache Metrics:
  - cache_hits_total, cache_misses_total, cache_entries, cache_evictions_total
    Labels: cache_type (local, redis)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels name, result
  - circuit_breaker_consecutive_failures
  - circuit_breaker_state_transitions_total

Refresh Metrics:
  - recommend_refresh_triggers_total: Labels source, result
  - opinion_events_received_total: Labels result
*/
package metrics
