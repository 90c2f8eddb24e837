// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
)

// keepLimit tells rebuild to reuse the current catalog limit.
const keepLimit = -1

// Engine builds snapshots from the stores and serves rankings from the
// active one. It is safe for concurrent use.
type Engine struct {
	// Configuration
	config *Config
	logger zerolog.Logger

	// Data sources
	catalog      CatalogStore
	interactions InteractionStore

	// Build state
	snapshot   atomic.Pointer[Snapshot]
	flight     singleflight.Group
	building   atomic.Bool
	generation atomic.Uint64
	limit      atomic.Int64
	lastErr    atomic.Pointer[string]

	// buildMu serializes builds. mu guards the epoch bookkeeping: readEpoch
	// is the epoch of the newest build that has read its inputs, and running
	// is true until that build returns. Flights are keyed by epoch.
	buildMu   sync.Mutex
	mu        sync.Mutex
	readEpoch uint64
	running   bool
}

// NewEngine creates an engine. No snapshot exists until Load, Refresh or
// EnsureLoaded succeeds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog CatalogStore, interactions InteractionStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil || interactions == nil {
		return nil, errors.New("recommend: catalog and interaction stores are required")
	}

	e := &Engine{
		config:       cfg,
		logger:       logger.With().Str("component", "recommend").Logger(),
		catalog:      catalog,
		interactions: interactions,
	}
	e.limit.Store(int64(cfg.Limits.CatalogLimit))
	return e, nil
}

// Config returns the engine configuration. Callers must not modify it.
func (e *Engine) Config() *Config { return e.config }

// Load builds a snapshot from at most limit catalog items (0 = all) and
// remembers the limit for later refreshes.
func (e *Engine) Load(ctx context.Context, limit int) error {
	if limit < 0 {
		limit = 0
	}
	return e.rebuild(ctx, "load", limit, false)
}

// Refresh rebuilds the snapshot with the last used limit. Queries already
// running finish against the snapshot they started with.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.rebuild(ctx, "refresh", keepLimit, false)
}

// EnsureLoaded builds the first snapshot if none exists yet.
func (e *Engine) EnsureLoaded(ctx context.Context) error {
	if e.snapshot.Load() != nil {
		return nil
	}
	return e.rebuild(ctx, "lazy", keepLimit, true)
}

// rebuild joins or starts a build and waits for it.
//
// A trigger joins the build that has not read its inputs yet, so a burst of
// triggers costs one build. A trigger arriving after the running build read
// its inputs queues one follow-up build instead, which sees the new data and
// limit. Only joinRunning callers, which need any snapshot at all, join a
// build that is already reading.
//
// The build ignores the caller's cancellation so that other waiters still
// get a snapshot; a canceled caller stops waiting.
func (e *Engine) rebuild(ctx context.Context, reason string, limit int, joinRunning bool) error {
	e.mu.Lock()
	if limit != keepLimit {
		e.limit.Store(int64(limit))
	}
	epoch := e.readEpoch + 1
	if joinRunning && e.running {
		epoch = e.readEpoch
	}
	bctx := context.WithoutCancel(ctx)
	ch := e.flight.DoChan(strconv.FormatUint(epoch, 10), func() (any, error) {
		return nil, e.build(bctx, reason, epoch)
	})
	e.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

func (e *Engine) build(ctx context.Context, reason string, epoch uint64) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	// From here on, new triggers queue behind this build.
	e.mu.Lock()
	e.readEpoch = epoch
	e.running = true
	limit := int(e.limit.Load())
	e.mu.Unlock()
	e.building.Store(true)
	defer func() {
		e.building.Store(false)
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	start := time.Now()
	logger := e.logger.With().Str("reason", reason).Int("limit", limit).Logger()
	logger.Info().Msg("Building recommendation snapshot")

	items, events, err := e.loadData(ctx, limit)
	if err != nil {
		return e.failBuild(logger, start, err)
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	snap, err := buildSnapshot(ctx, items, events, e.config)
	if err != nil {
		if !IsDataError(err) {
			err = &DataError{Reason: "build similarity matrix", Err: err}
		}
		return e.failBuild(logger, start, err)
	}

	snap.ID = uuid.NewString()
	snap.Generation = e.generation.Add(1)
	snap.BuiltAt = time.Now()
	snap.BuildDuration = time.Since(start)
	e.snapshot.Store(snap)
	e.lastErr.Store(nil)

	metrics.RecordSnapshotBuild(snap.BuildDuration, snap.Len(), snap.Events(), snap.Terms(), snap.Generation, nil)
	ev := logger.Info().
		Uint64("generation", snap.Generation).
		Str("snapshot_id", snap.ID).
		Int("items", snap.Len()).
		Int("events", snap.Events()).
		Int("terms", snap.Terms()).
		Dur("duration", snap.BuildDuration)
	if snap.duplicates > 0 {
		ev = ev.Int("duplicate_titles", snap.duplicates)
	}
	ev.Msg("Recommendation snapshot published")
	return nil
}

// loadData reads the catalog and the interaction log concurrently.
func (e *Engine) loadData(ctx context.Context, limit int) ([]Item, []Event, error) {
	var (
		items  []Item
		events []Event
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = e.catalog.LoadItems(gctx, limit)
		if err != nil {
			return &DataError{Reason: "load catalog", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = e.interactions.LoadEvents(gctx)
		if err != nil {
			return &DataError{Reason: "load interactions", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return items, events, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) failBuild(logger zerolog.Logger, start time.Time, err error) error {
	msg := err.Error()
	e.lastErr.Store(&msg)
	metrics.RecordSnapshotBuild(time.Since(start), 0, 0, 0, 0, err)

	ev := logger.Error().Err(err).Dur("duration", time.Since(start))
	if cur := e.snapshot.Load(); cur != nil {
		ev = ev.Uint64("serving_generation", cur.Generation)
	}
	ev.Msg("Snapshot build failed")
	return err
}

// Snapshot returns the active snapshot, or nil before the first build.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

type snapshotKey struct{}

// WithSnapshot returns a context that pins engine queries run with it to
// snap instead of the active snapshot, so a caller can tie a result to the
// snapshot it already inspected.
func WithSnapshot(ctx context.Context, snap *Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey{}, snap)
}

// current returns the snapshot pinned in ctx, or the active one.
func (e *Engine) current(ctx context.Context) (*Snapshot, error) {
	if snap, ok := ctx.Value(snapshotKey{}).(*Snapshot); ok && snap != nil {
		return snap, nil
	}
	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrDataUnavailable
	}
	return snap, nil
}

// Status reports the engine state.
func (e *Engine) Status() Status {
	st := Status{Building: e.building.Load()}
	if msg := e.lastErr.Load(); msg != nil {
		st.LastError = *msg
	}
	if snap := e.snapshot.Load(); snap != nil {
		st.Ready = true
		st.Generation = snap.Generation
		st.SnapshotID = snap.ID
		st.Items = snap.Len()
		st.Events = snap.Events()
		st.Terms = snap.Terms()
		st.BuiltAt = snap.BuiltAt
		st.BuildDurationMS = snap.BuildDuration.Milliseconds()
	}
	return st
}

// userHistory reads the user's events from the interaction store, falling
// back to the events captured in snap when the live read fails.
func (e *Engine) userHistory(ctx context.Context, snap *Snapshot, userID string) []Event {
	if userID == "" {
		return nil
	}
	hctx, cancel := context.WithTimeout(ctx, e.config.Limits.HistoryTimeout)
	defer cancel()

	events, err := e.interactions.UserEvents(hctx, EventFilter{UserID: userID})
	if err != nil {
		metrics.HistoryFallbacks.Inc()
		e.logger.Warn().Err(err).Str("user_id", userID).
			Uint64("generation", snap.Generation).
			Msg("Live history read failed, using snapshot history")
		return snap.History(userID)
	}
	return events
}

// ratedSet returns the indices of items with at least one rating event.
func ratedSet(snap *Snapshot, history []Event) map[int]struct{} {
	rated := make(map[int]struct{})
	for _, ev := range history {
		if ev.Kind != EventRating {
			continue
		}
		if i, ok := snap.IndexOfID(ev.ItemID); ok {
			rated[i] = struct{}{}
		}
	}
	return rated
}

// observe records the outcome of a query. errp is read when the deferred
// call runs.
func observe(operation string, start time.Time, errp *error) {
	metrics.RecordQuery(operation, outcome(*errp), time.Since(start))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrDataUnavailable):
		return "unavailable"
	case IsNotFound(err):
		return "not_found"
	case IsEmptyResult(err):
		return "empty"
	default:
		return "error"
	}
}
