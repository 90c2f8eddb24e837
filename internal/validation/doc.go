// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package validation validates API request parameters with
// go-playground/validator v10.
//
// A single validator instance is shared process-wide; it caches struct
// metadata. Errors name fields by their `query` tag and convert to the
// API's VALIDATION_ERROR body:
//
//	type similarRequest struct {
//	    Title string `query:"title" validate:"required,max=300,nocontrol"`
//	    N     int    `query:"n" validate:"gte=0,lte=100"`
//	}
//
// Custom tags:
//
//   - nocontrol: the string contains no control characters
package validation
