// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/giuliagiacomodonato/dcicflix/internal/breaker"
	"github.com/giuliagiacomodonato/dcicflix/internal/config"
	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
)

const (
	maxConnectTries = 3
	connectDelay    = time.Second
)

// Client owns the MongoDB connection shared by the stores.
type Client struct {
	client *mongo.Client
	cfg    config.MongoConfig
}

// Connect opens a client and verifies it with a ping, retrying with
// exponential backoff.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetAppName("dcicflix")

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	c := &Client{client: client, cfg: cfg}

	var lastErr error
	for attempt := 0; attempt < maxConnectTries; attempt++ {
		if attempt > 0 {
			delay := connectDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				_ = client.Disconnect(context.Background())
				return nil, ctx.Err()
			}
		}

		if lastErr = c.Ping(ctx); lastErr == nil {
			logging.Info().
				Str("movies", cfg.MoviesDB+"."+cfg.MoviesCollection).
				Str("opinions", cfg.OpinionsDB+"."+cfg.OpinionsCollection).
				Msg("Connected to MongoDB")
			return c, nil
		}
		logging.Warn().Err(lastErr).Int("attempt", attempt+1).Msg("MongoDB ping failed")
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("ping mongo after %d attempts: %w", maxConnectTries, lastErr)
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ConnectTimeout)
		defer cancel()
	}
	return c.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Movies returns the catalog collection.
func (c *Client) Movies() *mongo.Collection {
	return c.client.Database(c.cfg.MoviesDB).Collection(c.cfg.MoviesCollection)
}

// Opinions returns the interaction collection.
func (c *Client) Opinions() *mongo.Collection {
	return c.client.Database(c.cfg.OpinionsDB).Collection(c.cfg.OpinionsCollection)
}

// NewBreaker creates the circuit breaker for one collection.
func (c *Client) NewBreaker(name string) *breaker.Breaker {
	return breaker.New(breaker.Settings{
		Name:                name,
		ConsecutiveFailures: c.cfg.BreakerFailures,
		Timeout:             c.cfg.BreakerTimeout,
	})
}
