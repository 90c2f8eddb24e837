// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/giuliagiacomodonato/dcicflix/internal/breaker"
	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

var opinionProjection = bson.M{
	"userId":    1,
	"movieId":   1,
	"type":      1,
	"rating":    1,
	"timestamp": 1,
}

// OpinionStore reads the interaction log.
type OpinionStore struct {
	coll    *mongo.Collection
	breaker *breaker.Breaker
}

// NewOpinionStore creates an interaction store on the client's opinion collection.
func NewOpinionStore(c *Client) *OpinionStore {
	return &OpinionStore{
		coll:    c.Opinions(),
		breaker: c.NewBreaker("mongo-opinions"),
	}
}

// LoadEvents returns the whole log.
func (s *OpinionStore) LoadEvents(ctx context.Context) ([]recommend.Event, error) {
	return s.find(ctx, "load_events", bson.M{})
}

// UserEvents returns the events of one user, oldest first.
func (s *OpinionStore) UserEvents(ctx context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	return s.find(ctx, "user_events", userFilter(filter))
}

func userFilter(f recommend.EventFilter) bson.M {
	q := bson.M{"userId": f.UserID}
	if f.Kind != "" {
		q["type"] = string(f.Kind)
	}
	return q
}

func (s *OpinionStore) find(ctx context.Context, op string, filter bson.M) ([]recommend.Event, error) {
	start := time.Now()
	events, err := breaker.Execute(s.breaker, func() ([]recommend.Event, error) {
		opts := options.Find().
			SetProjection(opinionProjection).
			SetSort(bson.D{{Key: "timestamp", Value: 1}})

		cur, err := s.coll.Find(ctx, filter, opts)
		if err != nil {
			return nil, err
		}
		defer closeCursor(ctx, cur, s.coll.Name())
		return decodeOpinions(ctx, cur)
	})
	metrics.RecordStoreRead("mongo", op, time.Since(start), err)
	if err != nil {
		return nil, &StoreError{Collection: s.coll.Name(), Op: op, Err: err}
	}
	return events, nil
}

func decodeOpinions(ctx context.Context, cur *mongo.Cursor) ([]recommend.Event, error) {
	var (
		events  []recommend.Event
		skipped int
	)
	for cur.Next(ctx) {
		var doc opinionDocument
		if err := cur.Decode(&doc); err != nil {
			skipped++
			continue
		}
		ev, err := doc.toEvent()
		if err != nil {
			skipped++
			logging.Debug().Err(err).Msg("Skipping opinion document")
			continue
		}
		events = append(events, ev)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		metrics.StoreDocumentsSkipped.WithLabelValues("opinions").Add(float64(skipped))
		logging.Warn().Int("skipped", skipped).Int("loaded", len(events)).Msg("Skipped invalid opinion documents")
	}
	return events, nil
}
