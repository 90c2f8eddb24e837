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

// movieProjection limits catalog reads to the fields the engine uses.
var movieProjection = bson.M{
	"_id":         1,
	"title":       1,
	"year":        1,
	"genres":      1,
	"directors":   1,
	"cast":        1,
	"plot":        1,
	"poster":      1,
	"imdb.rating": 1,
	"imdb.votes":  1,
}

// MovieStore reads the catalog collection.
type MovieStore struct {
	coll    *mongo.Collection
	breaker *breaker.Breaker
}

// NewMovieStore creates a catalog store on the client's movie collection.
func NewMovieStore(c *Client) *MovieStore {
	return &MovieStore{
		coll:    c.Movies(),
		breaker: c.NewBreaker("mongo-movies"),
	}
}

// LoadItems returns catalog items in natural order. limit <= 0 returns all.
func (s *MovieStore) LoadItems(ctx context.Context, limit int) ([]recommend.Item, error) {
	start := time.Now()
	items, err := breaker.Execute(s.breaker, func() ([]recommend.Item, error) {
		return s.loadItems(ctx, limit)
	})
	metrics.RecordStoreRead("mongo", "load_items", time.Since(start), err)
	if err != nil {
		return nil, &StoreError{Collection: s.coll.Name(), Op: "load_items", Err: err}
	}
	return items, nil
}

func (s *MovieStore) loadItems(ctx context.Context, limit int) ([]recommend.Item, error) {
	opts := options.Find().SetProjection(movieProjection)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer closeCursor(ctx, cur, s.coll.Name())

	var (
		items   []recommend.Item
		skipped int
	)
	for cur.Next(ctx) {
		var doc movieDocument
		if err := cur.Decode(&doc); err != nil {
			skipped++
			logging.Debug().Err(err).Msg("Skipping undecodable movie document")
			continue
		}
		item, err := doc.toItem()
		if err != nil {
			skipped++
			logging.Debug().Err(err).Msg("Skipping movie document")
			continue
		}
		items = append(items, item)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	if skipped > 0 {
		metrics.StoreDocumentsSkipped.WithLabelValues("movies").Add(float64(skipped))
		logging.Warn().Int("skipped", skipped).Int("loaded", len(items)).Msg("Skipped invalid movie documents")
	}
	return items, nil
}
