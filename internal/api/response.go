// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
)

// APIResponse is the envelope of every /api/v1 response.
//
//	{
//	  "status": "success",
//	  "data": {"recommendations": [...], "count": 10},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "generation": 4}
//	}
//
// Status is "success", "empty" (valid query without matches) or "error".
type APIResponse struct {
	Status   string    `json:"status"`
	Data     any       `json:"data"`
	Metadata Metadata  `json:"metadata"`
	Error    *APIError `json:"error,omitempty"`
}

// Metadata describes how the response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`

	// Generation is the snapshot generation the result was computed from.
	Generation uint64 `json:"generation,omitempty"`
}

// APIError is the machine-readable error body.
//
// Codes: VALIDATION_ERROR, NOT_FOUND, EMPTY_RESULT, DATA_UNAVAILABLE,
// DATA_ERROR, TIMEOUT, REFRESH_THROTTLED, RATE_LIMIT_EXCEEDED, INTERNAL_ERROR.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type legacyKey struct{}

// withLegacyFormat marks requests served on the unversioned routes. Those
// keep the flat body of the first API generation: the payload itself on
// success, {"error": message} on failure.
func withLegacyFormat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), legacyKey{}, true)))
	})
}

func isLegacy(r *http.Request) bool {
	v, _ := r.Context().Value(legacyKey{}).(bool)
	return v
}

// respond writes data in the format of the route that served r.
func respond(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	if !isLegacy(r) {
		respondJSON(w, status, resp)
		return
	}
	if resp.Error != nil && resp.Status == "error" {
		writeJSON(w, status, map[string]string{"error": resp.Error.Message})
		return
	}
	writeJSON(w, status, resp.Data)
}

// respondJSON writes resp with an ETag.
func respondJSON(w http.ResponseWriter, status int, resp *APIResponse) {
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag hashes the body with FNV-1a.
func generateETag(data []byte) string {
	h := fnv.New32a()
	_, _ = h.Write(data)
	return `"` + strconv.FormatUint(uint64(h.Sum32()), 16) + `"`
}

// respondError writes an error body. Server-side failures are logged with
// the request's IDs.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil && status >= http.StatusInternalServerError {
		logging.Ctx(r.Context()).Error().
			Str("code", code).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respond(w, r, status, &APIResponse{
		Status:   "error",
		Metadata: Metadata{Timestamp: time.Now()},
		Error:    &APIError{Code: code, Message: message},
	})
}

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
