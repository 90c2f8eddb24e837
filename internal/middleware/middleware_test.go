// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generates when missing", "", false},
		{"preserves upstream id", "upstream-id-12345", true},
		{"rejects spaces", "bad id", false},
		{"rejects control characters", "bad\nid", false},
		{"rejects oversized id", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured string
			handler := RequestID(func(w http.ResponseWriter, r *http.Request) {
				captured = GetRequestID(r.Context())
				if logging.CorrelationIDFromContext(r.Context()) == "" {
					t.Error("Expected correlation ID in context")
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got != captured {
				t.Errorf("Header ID %q does not match context ID %q", got, captured)
			}
			if tt.keep {
				if got != tt.incoming {
					t.Errorf("Expected upstream ID %q, got %q", tt.incoming, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("Expected generated UUID, got %q: %v", got, err)
			}
		})
	}
}

func TestPrometheusMetrics_RoutePatternLabel(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler { return PrometheusMetrics(next.ServeHTTP) })
	r.Get("/test-metrics/similar/{title}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/test-metrics/similar/{title}", "418")
	before := testutil.ToFloat64(counter)

	for _, title := range []string{"Heat", "Alien", "Up"} {
		req := httptest.NewRequest(http.MethodGet, "/test-metrics/similar/"+title, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("Expected 3 requests under the route pattern, got %v", got)
	}
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/nowhere", nil)
	if got := routePattern(req); got != unmatchedRoute {
		t.Errorf("routePattern() = %q, want %q", got, unmatchedRoute)
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	rw := NewStatusRecorder(rec)
	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write([]byte("missing"))

	if rw.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want 404", rw.Status())
	}
	if rw.BytesWritten() != len("missing") {
		t.Errorf("BytesWritten() = %d, want %d", rw.BytesWritten(), len("missing"))
	}

	implicit := NewStatusRecorder(httptest.NewRecorder())
	_, _ = implicit.Write([]byte("ok"))
	if implicit.Status() != http.StatusOK {
		t.Errorf("Expected implicit 200, got %d", implicit.Status())
	}
}

func TestAccessLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewTestLogger(&buf)

	handler := RequestID(AccessLog(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	req := httptest.NewRequest(http.MethodGet, "/recommendations?n=5", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	req = req.WithContext(logging.ContextWithLogger(req.Context(), logger))
	handler(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Expected one JSON log line, got %q: %v", buf.String(), err)
	}
	checks := map[string]any{
		"level":      "error",
		"status":     float64(http.StatusServiceUnavailable),
		"path":       "/recommendations",
		"query":      "n=5",
		"request_id": "req-42",
	}
	for key, want := range checks {
		if entry[key] != want {
			t.Errorf("log field %s = %v, want %v", key, entry[key], want)
		}
	}
}

func TestCompression(t *testing.T) {
	t.Parallel()

	body := strings.Repeat(`{"title":"Toy Story","genres":["Animation"]}`, 50)
	handler := Compression(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	})

	t.Run("gzip when accepted", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Header().Get("Content-Encoding") != "gzip" {
			t.Fatal("Expected gzip Content-Encoding")
		}
		zr, err := gzip.NewReader(rec.Body)
		if err != nil {
			t.Fatalf("gzip.NewReader() error = %v", err)
		}
		plain, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(plain) != body {
			t.Error("Decompressed body does not match")
		}
	})

	t.Run("plain otherwise", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Header().Get("Content-Encoding") != "" {
			t.Error("Expected no Content-Encoding")
		}
		if rec.Body.String() != body {
			t.Error("Expected uncompressed body")
		}
	})
}
