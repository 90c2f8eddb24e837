// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// errorStatus maps engine errors to an HTTP status and error code.
//
//	recommend.ErrDataUnavailable   503 DATA_UNAVAILABLE
//	*recommend.DataError           503 DATA_ERROR
//	*recommend.NotFoundError       404 NOT_FOUND
//	*recommend.EmptyResultError    200 EMPTY_RESULT
//	context deadline               504 TIMEOUT
//	anything else                  500 INTERNAL_ERROR
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrDataUnavailable):
		return http.StatusServiceUnavailable, "DATA_UNAVAILABLE"
	case recommend.IsDataError(err):
		return http.StatusServiceUnavailable, "DATA_ERROR"
	case recommend.IsNotFound(err):
		return http.StatusNotFound, "NOT_FOUND"
	case recommend.IsEmptyResult(err):
		return http.StatusOK, "EMPTY_RESULT"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

// respondEngineError writes err. An empty result is a success with no rows
// so that clients can render an empty list and the message.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error, empty recommendationPayload) {
	status, code := errorStatus(err)
	if code == "EMPTY_RESULT" {
		empty.Recommendations = []movieRow{}
		empty.Message = err.Error()
		respond(w, r, status, &APIResponse{
			Status:   "empty",
			Data:     empty,
			Metadata: metadataNow(),
			Error:    &APIError{Code: code, Message: err.Error()},
		})
		return
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	respondError(w, r, status, code, message, err)
}
