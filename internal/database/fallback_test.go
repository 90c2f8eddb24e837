// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

var errStoreDown = errors.New("server selection timeout")

type fakeCatalog struct {
	mu    sync.Mutex
	items []recommend.Item
	err   error
}

func (f *fakeCatalog) LoadItems(_ context.Context, limit int) ([]recommend.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeCatalog) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeInteractions struct {
	mu     sync.Mutex
	events []recommend.Event
	err    error
}

func (f *fakeInteractions) LoadEvents(context.Context) ([]recommend.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.events, f.err
}

func (f *fakeInteractions) UserEvents(_ context.Context, filter recommend.EventFilter) ([]recommend.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []recommend.Event
	for _, ev := range f.events {
		if ev.UserID == filter.UserID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeInteractions) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func quietLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestFallbackCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	archive := newTestArchive(t)
	primary := &fakeCatalog{items: sampleItems(4)}
	store := NewFallbackCatalog(primary, archive, quietLogger())

	t.Run("no archive yet", func(t *testing.T) {
		primary.fail(errStoreDown)
		_, err := store.LoadItems(ctx, 0)
		if !errors.Is(err, errStoreDown) {
			t.Errorf("LoadItems() error = %v, want the primary error", err)
		}
		primary.fail(nil)
	})

	t.Run("primary success is archived", func(t *testing.T) {
		got, err := store.LoadItems(ctx, 0)
		if err != nil {
			t.Fatalf("LoadItems() error = %v", err)
		}
		if len(got) != 4 {
			t.Fatalf("LoadItems() = %d items, want 4", len(got))
		}
		archived, err := archive.LoadItems(ctx, 0)
		if err != nil || !reflect.DeepEqual(archived, got) {
			t.Errorf("archive = %v (%v), want the loaded catalog", archived, err)
		}
	})

	t.Run("primary failure serves archive", func(t *testing.T) {
		primary.fail(errStoreDown)
		got, err := store.LoadItems(ctx, 2)
		if err != nil {
			t.Fatalf("LoadItems() error = %v", err)
		}
		if len(got) != 2 || got[0].ID != "m0" {
			t.Errorf("LoadItems(2) = %+v, want the first 2 archived items", got)
		}
	})

	t.Run("canceled caller gets the primary error", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		primary.fail(context.Canceled)
		if _, err := store.LoadItems(canceled, 0); !errors.Is(err, context.Canceled) {
			t.Errorf("LoadItems() error = %v, want context.Canceled", err)
		}
	})
}

func TestFallbackInteractions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	archive := newTestArchive(t)
	events := []recommend.Event{
		{UserID: "u1", ItemID: "m1", Kind: recommend.EventClick},
		{UserID: "u2", ItemID: "m2", Kind: recommend.EventClick},
	}
	primary := &fakeInteractions{events: events}
	store := NewFallbackInteractions(primary, archive, quietLogger())

	if _, err := store.LoadEvents(ctx); err != nil {
		t.Fatalf("LoadEvents() error = %v", err)
	}

	primary.fail(errStoreDown)

	got, err := store.LoadEvents(ctx)
	if err != nil {
		t.Fatalf("LoadEvents() fallback error = %v", err)
	}
	if !reflect.DeepEqual(got, events) {
		t.Errorf("LoadEvents() = %+v, want archived %+v", got, events)
	}

	user, err := store.UserEvents(ctx, recommend.EventFilter{UserID: "u2"})
	if err != nil {
		t.Fatalf("UserEvents() fallback error = %v", err)
	}
	if len(user) != 1 || user[0].ItemID != "m2" {
		t.Errorf("UserEvents() = %+v, want the archived u2 click", user)
	}
}
