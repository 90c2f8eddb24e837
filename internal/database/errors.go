// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
)

// ErrArchiveEmpty is returned when the archive holds no data of the requested kind.
var ErrArchiveEmpty = errors.New("archive is empty")

// StoreError wraps a failed read with the collection and operation.
type StoreError struct {
	Collection string
	Op         string
	Err        error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Collection, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// closeCursor closes a cursor and logs any error.
// Use this for cleanup where errors should be acknowledged but not fail the read.
func closeCursor(ctx context.Context, cur *mongo.Cursor, collection string) {
	if cur == nil {
		return
	}
	// The read context may already be done; closing must still reach the server.
	if err := cur.Close(context.WithoutCancel(ctx)); err != nil {
		logging.Warn().Str("collection", collection).Err(err).Msg("Failed to close cursor")
	}
}
