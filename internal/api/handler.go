// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/giuliagiacomodonato/dcicflix/internal/cache"
	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Cache stores encoded responses of the user-independent endpoints.
	// Nil disables response caching.
	Cache cache.Store

	// LazyLoad builds the first snapshot on the first query.
	LazyLoad bool

	// RefreshMinInterval throttles POST /recommendations/refresh.
	// Zero disables throttling.
	RefreshMinInterval time.Duration

	// Checks are run by the health endpoints, keyed by dependency name.
	Checks map[string]HealthCheck

	// Version is reported by /health.
	Version string
}

// Handler serves the recommendation API.
type Handler struct {
	engine    *recommend.Engine
	cache     cache.Store
	lazyLoad  bool
	refresh   *rate.Limiter
	checks    map[string]HealthCheck
	version   string
	startTime time.Time
}

// NewHandler creates a Handler over engine.
func NewHandler(engine *recommend.Engine, opts HandlerOptions) *Handler {
	limit := rate.Inf
	if opts.RefreshMinInterval > 0 {
		limit = rate.Every(opts.RefreshMinInterval)
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		engine:    engine,
		cache:     opts.Cache,
		lazyLoad:  opts.LazyLoad,
		refresh:   rate.NewLimiter(limit, 1),
		checks:    opts.Checks,
		version:   version,
		startTime: time.Now(),
	}
}

// snapshot returns the active snapshot, building the first one when lazy
// loading is on. It writes the error response and returns false when no
// snapshot can be served.
func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request, empty recommendationPayload) (*recommend.Snapshot, bool) {
	if h.lazyLoad {
		if err := h.engine.EnsureLoaded(r.Context()); err != nil {
			respondEngineError(w, r, err, empty)
			return nil, false
		}
	}
	snap := h.engine.Snapshot()
	if snap == nil {
		respondEngineError(w, r, recommend.ErrDataUnavailable, empty)
		return nil, false
	}
	return snap, true
}

// listQuery describes one list endpoint call.
type listQuery struct {
	// op names the endpoint in cache keys.
	op string

	// params identify the result within a snapshot generation.
	params any

	// cacheable is false for results that depend on live user history.
	cacheable bool

	// base carries the echo fields of the payload.
	base recommendationPayload

	compute func(ctx context.Context) (recommendationPayload, error)
}

// serveList runs q against the active snapshot, going through the
// response cache when q is cacheable.
func (h *Handler) serveList(w http.ResponseWriter, r *http.Request, q listQuery) {
	start := time.Now()
	snap, ok := h.snapshot(w, r, q.base)
	if !ok {
		return
	}

	// Queries run against snap so the rows match the key and metadata.
	ctx := recommend.WithSnapshot(r.Context(), snap)

	useCache := q.cacheable && h.cache != nil
	key := cache.Key(q.op, snap.ID, q.params)
	if useCache {
		if payload, hit := cache.GetJSON[recommendationPayload](ctx, h.cache, key); hit {
			respond(w, r, http.StatusOK, &APIResponse{
				Status:   "success",
				Data:     payload,
				Metadata: Metadata{Timestamp: time.Now(), Cached: true, Generation: snap.Generation},
			})
			return
		}
	}

	payload, err := q.compute(ctx)
	if err != nil {
		respondEngineError(w, r, err, q.base)
		return
	}
	if useCache {
		cache.SetJSON(ctx, h.cache, key, payload)
	}

	respond(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data:   payload,
		Metadata: Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Generation:  snap.Generation,
		},
	})
}
