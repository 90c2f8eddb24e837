// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - snapshot builds (duration, size, generation)
// - recommendation queries per operation
// - store reads against MongoDB and the archive
// - response cache efficiency
// - API latency and throughput
// - circuit breakers and refresh triggers

var (
	// Snapshot Metrics
	SnapshotBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_snapshot_build_duration_seconds",
			Help:    "Duration of snapshot builds in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"status"}, // "success", "error"
	)

	SnapshotItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_items",
			Help: "Number of catalog items in the active snapshot",
		},
	)

	SnapshotEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_events",
			Help: "Number of interaction events aggregated into the active snapshot",
		},
	)

	SnapshotVocabulary = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_vocabulary_terms",
			Help: "Number of terms in the active snapshot vocabulary",
		},
	)

	SnapshotGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_generation",
			Help: "Generation number of the active snapshot",
		},
	)

	SnapshotLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_snapshot_last_success_timestamp",
			Help: "Unix timestamp of the last successful snapshot build",
		},
	)

	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommend_query_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"operation", "outcome"}, // outcome: "ok", "empty", "not_found", "unavailable", "error"
	)

	HistoryFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_history_fallbacks_total",
			Help: "User history reads served from the snapshot after a live read failed",
		},
	)

	// Store Metrics
	StoreReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_read_duration_seconds",
			Help:    "Duration of store reads in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"store", "operation"},
	)

	StoreReadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_read_errors_total",
			Help: "Total number of failed store reads",
		},
		[]string{"store", "operation", "error_type"},
	)

	StoreDocumentsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_documents_skipped_total",
			Help: "Documents skipped because they could not be decoded",
		},
		[]string{"store"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "local", "redis"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Refresh Trigger Metrics
	RefreshTriggers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_refresh_triggers_total",
			Help: "Total number of refresh requests by source",
		},
		[]string{"source", "result"}, // source: "startup", "schedule", "api", "event"
	)

	OpinionEventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opinion_events_received_total",
			Help: "Opinion events received from the message bus",
		},
		[]string{"result"}, // "accepted", "invalid"
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordSnapshotBuild records the outcome of a snapshot build. items, events,
// terms and generation are only applied on success.
func RecordSnapshotBuild(duration time.Duration, items, events, terms int, generation uint64, err error) {
	if err != nil {
		SnapshotBuildDuration.WithLabelValues("error").Observe(duration.Seconds())
		return
	}
	SnapshotBuildDuration.WithLabelValues("success").Observe(duration.Seconds())
	SnapshotItems.Set(float64(items))
	SnapshotEvents.Set(float64(events))
	SnapshotVocabulary.Set(float64(terms))
	SnapshotGeneration.Set(float64(generation))
	SnapshotLastSuccess.Set(float64(time.Now().Unix()))
}

// RecordQuery records a recommendation query.
func RecordQuery(operation, outcome string, duration time.Duration) {
	QueriesTotal.WithLabelValues(operation, outcome).Inc()
	QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStoreRead records a store read metric
func RecordStoreRead(store, operation string, duration time.Duration, err error) {
	StoreReadDuration.WithLabelValues(store, operation).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		StoreReadErrors.WithLabelValues(store, operation, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordStatus is RecordAPIRequest with an integer status code.
func RecordStatus(method, endpoint string, status int, duration time.Duration) {
	RecordAPIRequest(method, endpoint, strconv.Itoa(status), duration)
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup counts a hit or miss for the named cache.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordRefreshTrigger counts a refresh request by source and result.
func RecordRefreshTrigger(source string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	RefreshTriggers.WithLabelValues(source, result).Inc()
}
