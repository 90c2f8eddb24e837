// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable is returned by queries issued before any successful build.
var ErrDataUnavailable = errors.New("recommend: no snapshot loaded")

// DataError is a failed build: empty catalog, unusable data or a store failure.
// The previous snapshot keeps serving.
type DataError struct {
	Reason string
	Err    error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("recommend: %s: %v", e.Reason, e.Err)
	}
	return "recommend: " + e.Reason
}

func (e *DataError) Unwrap() error { return e.Err }

// NotFoundError is returned when a lookup key is absent from the snapshot.
type NotFoundError struct {
	Kind string // "title", "id"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("recommend: %s %q not found", e.Kind, e.Key)
}

// EmptyResultError is returned for a valid query that matched nothing.
type EmptyResultError struct {
	Query string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("recommend: no items match %s", e.Query)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsEmptyResult reports whether err is an EmptyResultError.
func IsEmptyResult(err error) bool {
	var er *EmptyResultError
	return errors.As(err, &er)
}

// IsDataError reports whether err is a DataError.
func IsDataError(err error) bool {
	var de *DataError
	return errors.As(err, &de)
}
