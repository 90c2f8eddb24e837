// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
)

// AccessLog writes one structured line per request through logging.Ctx, so
// the line carries the request and correlation IDs set by RequestID.
// Server errors log at error level, client errors at warn, the rest at debug.
func AccessLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := NewStatusRecorder(w)

		next(rw, r)

		logger := logging.Ctx(r.Context())
		var ev *zerolog.Event
		switch status := rw.Status(); {
		case status >= http.StatusInternalServerError:
			ev = logger.Error()
		case status >= http.StatusBadRequest:
			ev = logger.Warn()
		default:
			ev = logger.Debug()
		}
		ev.Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Int("status", rw.Status()).
			Int("bytes", rw.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP request")
	}
}
