// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// FallbackCatalog archives successful catalog loads and serves the archive
// when the primary store fails.
type FallbackCatalog struct {
	primary recommend.CatalogStore
	archive *Archive
	logger  zerolog.Logger
}

// NewFallbackCatalog wraps primary with archive.
func NewFallbackCatalog(primary recommend.CatalogStore, archive *Archive, logger zerolog.Logger) *FallbackCatalog {
	return &FallbackCatalog{
		primary: primary,
		archive: archive,
		logger:  logger.With().Str("component", "catalog-fallback").Logger(),
	}
}

// LoadItems implements recommend.CatalogStore.
func (f *FallbackCatalog) LoadItems(ctx context.Context, limit int) ([]recommend.Item, error) {
	items, err := f.primary.LoadItems(ctx, limit)
	if err == nil {
		if saveErr := f.archive.SaveItems(ctx, items); saveErr != nil {
			f.logger.Warn().Err(saveErr).Msg("Failed to archive catalog")
		}
		return items, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	start := time.Now()
	archived, aerr := f.archive.LoadItems(ctx, limit)
	metrics.RecordStoreRead("archive", "load_items", time.Since(start), aerr)
	if aerr != nil {
		return nil, fmt.Errorf("%w (archive: %v)", err, aerr)
	}

	savedAt, _ := f.archive.SavedAt()
	f.logger.Warn().Err(err).
		Int("items", len(archived)).
		Time("archived_at", savedAt).
		Msg("Catalog store unavailable, serving archived catalog")
	return archived, nil
}

// FallbackInteractions archives successful log loads and serves the
// archive when the primary store fails.
type FallbackInteractions struct {
	primary recommend.InteractionStore
	archive *Archive
	logger  zerolog.Logger
}

// NewFallbackInteractions wraps primary with archive.
func NewFallbackInteractions(primary recommend.InteractionStore, archive *Archive, logger zerolog.Logger) *FallbackInteractions {
	return &FallbackInteractions{
		primary: primary,
		archive: archive,
		logger:  logger.With().Str("component", "interactions-fallback").Logger(),
	}
}

// LoadEvents implements recommend.InteractionStore.
func (f *FallbackInteractions) LoadEvents(ctx context.Context) ([]recommend.Event, error) {
	events, err := f.primary.LoadEvents(ctx)
	if err == nil {
		if saveErr := f.archive.SaveEvents(ctx, events); saveErr != nil {
			f.logger.Warn().Err(saveErr).Msg("Failed to archive interaction log")
		}
		return events, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	start := time.Now()
	archived, aerr := f.archive.LoadEvents(ctx)
	metrics.RecordStoreRead("archive", "load_events", time.Since(start), aerr)
	if aerr != nil {
		return nil, fmt.Errorf("%w (archive: %v)", err, aerr)
	}

	_, savedAt := f.archive.SavedAt()
	f.logger.Warn().Err(err).
		Int("events", len(archived)).
		Time("archived_at", savedAt).
		Msg("Interaction store unavailable, serving archived log")
	return archived, nil
}

// UserEvents implements recommend.InteractionStore. Archived history is
// only as fresh as the last successful LoadEvents.
func (f *FallbackInteractions) UserEvents(ctx context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	events, err := f.primary.UserEvents(ctx, filter)
	if err == nil || ctx.Err() != nil {
		return events, err
	}

	archived, aerr := f.archive.UserEvents(ctx, filter)
	if aerr != nil {
		return nil, fmt.Errorf("%w (archive: %v)", err, aerr)
	}
	f.logger.Debug().Err(err).Str("user_id", filter.UserID).Msg("Serving archived user history")
	return archived, nil
}
