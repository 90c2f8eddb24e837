// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package metrics

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// histogramCount reads the sample count of one histogram series.
func histogramCount(t *testing.T, h prometheus.Observer) uint64 {
	t.Helper()
	m, ok := h.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T is not a metric", h)
	}
	var out dto.Metric
	if err := m.Write(&out); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return out.GetHistogram().GetSampleCount()
}

func TestRecordSnapshotBuild(t *testing.T) {
	beforeOK := histogramCount(t, SnapshotBuildDuration.WithLabelValues("success"))
	beforeErr := histogramCount(t, SnapshotBuildDuration.WithLabelValues("error"))

	RecordSnapshotBuild(2*time.Second, 120, 450, 3000, 7, nil)

	if got := testutil.ToFloat64(SnapshotItems); got != 120 {
		t.Errorf("SnapshotItems = %v, want 120", got)
	}
	if got := testutil.ToFloat64(SnapshotEvents); got != 450 {
		t.Errorf("SnapshotEvents = %v, want 450", got)
	}
	if got := testutil.ToFloat64(SnapshotVocabulary); got != 3000 {
		t.Errorf("SnapshotVocabulary = %v, want 3000", got)
	}
	if got := testutil.ToFloat64(SnapshotGeneration); got != 7 {
		t.Errorf("SnapshotGeneration = %v, want 7", got)
	}
	if got := histogramCount(t, SnapshotBuildDuration.WithLabelValues("success")); got != beforeOK+1 {
		t.Errorf("success builds = %d, want %d", got, beforeOK+1)
	}

	// A failed build leaves the gauges describing the previous snapshot.
	RecordSnapshotBuild(time.Second, 0, 0, 0, 0, errors.New("mongo down"))

	if got := testutil.ToFloat64(SnapshotItems); got != 120 {
		t.Errorf("SnapshotItems after failure = %v, want 120", got)
	}
	if got := histogramCount(t, SnapshotBuildDuration.WithLabelValues("error")); got != beforeErr+1 {
		t.Errorf("failed builds = %d, want %d", got, beforeErr+1)
	}
}

func TestRecordQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		outcome   string
	}{
		{"similar ok", "similar", "ok"},
		{"similar not found", "similar", "not_found"},
		{"top empty", "top", "empty"},
		{"personalized unavailable", "personalized", "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := QueriesTotal.WithLabelValues(tt.operation, tt.outcome)
			before := testutil.ToFloat64(counter)
			RecordQuery(tt.operation, tt.outcome, time.Millisecond)
			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("QueriesTotal(%s,%s) = %v, want %v", tt.operation, tt.outcome, got, before+1)
			}
		})
	}
}

func TestRecordStoreRead_ErrorTruncation(t *testing.T) {
	long := errors.New(strings.Repeat("x", 80))
	RecordStoreRead("movies", "load_items", time.Millisecond, long)

	counter := StoreReadErrors.WithLabelValues("movies", "load_items", strings.Repeat("x", 50))
	if got := testutil.ToFloat64(counter); got < 1 {
		t.Errorf("truncated error label not recorded, got %v", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := CacheHits.WithLabelValues("local")
	misses := CacheMisses.WithLabelValues("local")
	h0, m0 := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	RecordCacheLookup("local", true)
	RecordCacheLookup("local", false)
	RecordCacheLookup("local", false)

	if got := testutil.ToFloat64(hits) - h0; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(misses) - m0; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordRefreshTrigger(t *testing.T) {
	ok := RefreshTriggers.WithLabelValues("api", "success")
	failed := RefreshTriggers.WithLabelValues("api", "error")
	o0, f0 := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordRefreshTrigger("api", nil)
	RecordRefreshTrigger("api", errors.New("boom"))

	if testutil.ToFloat64(ok)-o0 != 1 || testutil.ToFloat64(failed)-f0 != 1 {
		t.Error("refresh trigger counters did not advance by one each")
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("after inc = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("after dec = %v, want %v", got, before)
	}
}

func TestRecordStatus(t *testing.T) {
	counter := APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations/top", "200")
	before := testutil.ToFloat64(counter)
	RecordStatus("GET", "/api/v1/recommendations/top", 200, 3*time.Millisecond)
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", got, before+1)
	}
}

// TestConcurrentMetricRecording runs the helpers from many goroutines.
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordQuery("top", "ok", time.Microsecond)
			RecordCacheLookup("redis", true)
			RecordStoreRead("opinions", "user_events", time.Microsecond, nil)
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()
}

// TestMetricsRegistration verifies all metrics are properly registered
func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		SnapshotBuildDuration,
		SnapshotItems,
		SnapshotEvents,
		SnapshotVocabulary,
		SnapshotGeneration,
		SnapshotLastSuccess,
		QueryDuration,
		QueriesTotal,
		HistoryFallbacks,
		StoreReadDuration,
		StoreReadErrors,
		StoreDocumentsSkipped,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		CacheHits,
		CacheMisses,
		CacheSize,
		CacheEvictions,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerConsecutiveFailures,
		CircuitBreakerTransitions,
		RefreshTriggers,
		OpinionEventsReceived,
		AppInfo,
	}

	for _, c := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		c.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("collector %T has no descriptors", c)
		}
	}
}

func BenchmarkRecordQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordQuery("similar", "ok", time.Millisecond)
	}
}
