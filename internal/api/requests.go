// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/giuliagiacomodonato/dcicflix/internal/validation"
)

// n is clamped again by the engine configuration.
type recommendationsRequest struct {
	UserID string `query:"userId" validate:"max=128,nocontrol"`
	N      int    `query:"n" validate:"gte=0,lte=1000"`
}

type similarRequest struct {
	Title           string `query:"title" validate:"required,max=300,nocontrol"`
	N               int    `query:"n" validate:"gte=0,lte=1000"`
	SelfExclude     bool   `query:"selfExclude"`
	UseInteractions bool   `query:"useInteractions"`
}

type topRequest struct {
	Genre         string `query:"genre" validate:"max=300,nocontrol"`
	N             int    `query:"n" validate:"gte=0,lte=1000"`
	ExcludeUserID string `query:"excludeUserId" validate:"max=128,nocontrol"`
}

type userRequest struct {
	UserID string `query:"userId" validate:"required,max=128,nocontrol"`
	N      int    `query:"n" validate:"gte=0,lte=1000"`
}

// paramError is a malformed query parameter.
type paramError struct {
	name  string
	value string
	want  string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.name, e.want, e.value)
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &paramError{name: name, value: raw, want: "an integer"}
	}
	return v, nil
}

// boolParam parses an optional boolean query parameter.
func boolParam(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &paramError{name: name, value: raw, want: "a boolean"}
	}
	return v, nil
}

// pathParam returns a decoded URL path parameter with surrounding space
// removed. chi matches on the raw path when the request carries escapes
// such as %2F, and leaves those values escaped.
//
// Titles are exact lookup keys. The trim here matches the one applied to
// stored titles in database.movieDocument.toItem; change both together.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParamFromCtx(r.Context(), name)
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(v); err == nil {
			v = unescaped
		}
	}
	return strings.TrimSpace(v)
}

// validate runs the struct validator and writes a 400 on failure.
func validate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := validation.ValidateStruct(req); err != nil {
		apiErr := err.ToAPIError()
		respond(w, r, http.StatusBadRequest, &APIResponse{
			Status:   "error",
			Metadata: metadataNow(),
			Error:    &APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details},
		})
		return false
	}
	return true
}

func badParam(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
}
