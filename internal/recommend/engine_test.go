// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockCatalog implements CatalogStore for testing.
type mockCatalog struct {
	mu        sync.Mutex
	items     []Item
	err       error
	gate      chan struct{} // when set, LoadItems blocks until it is closed
	calls     atomic.Int32
	lastLimit atomic.Int32
}

func (m *mockCatalog) LoadItems(ctx context.Context, limit int) ([]Item, error) {
	m.calls.Add(1)
	m.lastLimit.Store(int32(limit))
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]Item(nil), m.items...), nil
}

func (m *mockCatalog) set(items []Item, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items, m.err = items, err
}

// mockInteractions implements InteractionStore for testing.
type mockInteractions struct {
	mu        sync.Mutex
	events    []Event
	loadErr   error
	userErr   error
	userCalls atomic.Int32
	loadCalls atomic.Int32
}

func (m *mockInteractions) LoadEvents(ctx context.Context) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer m.loadCalls.Add(1) // counted once the log is copied
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]Event(nil), m.events...), nil
}

func (m *mockInteractions) UserEvents(ctx context.Context, filter EventFilter) ([]Event, error) {
	m.userCalls.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.userErr != nil {
		return nil, m.userErr
	}
	var out []Event
	for _, ev := range m.events {
		if ev.UserID != filter.UserID {
			continue
		}
		if filter.Kind != "" && ev.Kind != filter.Kind {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (m *mockInteractions) add(events ...Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
}

func ptr(f float64) *float64 { return &f }

func click(user, item string) Event {
	return Event{UserID: user, ItemID: item, Kind: EventClick, Timestamp: time.Unix(1700000000, 0)}
}

func rate(user, item string, r float64) Event {
	return Event{UserID: user, ItemID: item, Kind: EventRating, Rating: &r, Timestamp: time.Unix(1700000000, 0)}
}

func newTestEngine(t *testing.T, items []Item, events []Event) (*Engine, *mockCatalog, *mockInteractions) {
	t.Helper()
	catalog := &mockCatalog{items: items}
	interactions := &mockInteractions{events: events}
	e, err := NewEngine(DefaultConfig(), catalog, interactions, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, catalog, interactions
}

func loadedEngine(t *testing.T, items []Item, events []Event) (*Engine, *mockCatalog, *mockInteractions) {
	t.Helper()
	e, c, i := newTestEngine(t, items, events)
	if err := e.Load(context.Background(), 0); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return e, c, i
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 5s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	catalog, interactions := &mockCatalog{}, &mockInteractions{}

	tests := []struct {
		name    string
		cfg     *Config
		catalog CatalogStore
		inter   InteractionStore
		wantErr bool
	}{
		{"defaults", nil, catalog, interactions, false},
		{"missing catalog", nil, nil, interactions, true},
		{"missing interactions", nil, catalog, nil, true},
		{"invalid config", func() *Config { c := DefaultConfig(); c.Limits.MaxN = 1; return c }(), catalog, interactions, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewEngine(tt.cfg, tt.catalog, tt.inter, zerolog.Nop())
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEngine() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngine_QueriesBeforeLoad(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, fixtureItems(), nil)
	ctx := context.Background()

	if _, err := e.SimilarTo(ctx, "Heat", 5, SimilarOptions{}); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("SimilarTo() error = %v, want ErrDataUnavailable", err)
	}
	if _, err := e.TopRated(ctx, TopQuery{N: 5}); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("TopRated() error = %v, want ErrDataUnavailable", err)
	}
	if _, err := e.PersonalizedFor(ctx, "u1", 5); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("PersonalizedFor() error = %v, want ErrDataUnavailable", err)
	}
	if _, _, err := e.FavoriteGenreOf(ctx, "u1"); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("FavoriteGenreOf() error = %v, want ErrDataUnavailable", err)
	}
	if _, err := e.RecommendByFavoriteGenre(ctx, "u1", 5); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("RecommendByFavoriteGenre() error = %v, want ErrDataUnavailable", err)
	}
	if _, _, err := e.UnfinishedFor(ctx, "u1", 5); !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("UnfinishedFor() error = %v, want ErrDataUnavailable", err)
	}
	if e.Status().Ready {
		t.Error("Status().Ready should be false before the first build")
	}
}

func TestEngine_LoadEmptyCatalog(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, nil, nil)

	err := e.Load(context.Background(), 0)
	if !IsDataError(err) {
		t.Fatalf("Load() error = %v, want DataError", err)
	}
	st := e.Status()
	if st.Ready || st.LastError == "" {
		t.Errorf("Status() = %+v, want not ready with LastError", st)
	}
}

func TestEngine_LoadMissingID(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestEngine(t, []Item{{Title: "No ID"}}, nil)
	if err := e.Load(context.Background(), 0); !IsDataError(err) {
		t.Fatalf("Load() error = %v, want DataError", err)
	}
}

func TestEngine_StoreFailureIsDataError(t *testing.T) {
	t.Parallel()

	e, _, inter := newTestEngine(t, fixtureItems(), nil)
	inter.loadErr = errors.New("connection refused")

	err := e.Load(context.Background(), 0)
	if !IsDataError(err) {
		t.Fatalf("Load() error = %v, want DataError", err)
	}
	if !errors.Is(err, inter.loadErr) {
		t.Errorf("Load() error should wrap the store error, got %v", err)
	}
}

func TestEngine_FailedRefreshKeepsSnapshot(t *testing.T) {
	t.Parallel()

	e, catalog, _ := loadedEngine(t, fixtureItems(), nil)
	before := e.Snapshot()

	catalog.set(nil, nil)
	if err := e.Refresh(context.Background()); !IsDataError(err) {
		t.Fatalf("Refresh() error = %v, want DataError", err)
	}
	if e.Snapshot() != before {
		t.Error("failed refresh replaced the snapshot")
	}
	if _, err := e.SimilarTo(context.Background(), "Heat", 3, SimilarOptions{SelfExclude: true}); err != nil {
		t.Errorf("queries should keep working on the previous snapshot: %v", err)
	}
	st := e.Status()
	if !st.Ready || st.LastError == "" || st.Generation != 1 {
		t.Errorf("Status() = %+v, want ready generation 1 with LastError", st)
	}

	catalog.set(fixtureItems(), nil)
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	st = e.Status()
	if st.Generation != 2 || st.LastError != "" {
		t.Errorf("Status() = %+v, want generation 2 without LastError", st)
	}
}

func TestEngine_LoadLimit(t *testing.T) {
	t.Parallel()

	e, catalog, _ := newTestEngine(t, fixtureItems(), nil)

	if err := e.Load(context.Background(), 2); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := e.Snapshot().Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := catalog.lastLimit.Load(); got != 2 {
		t.Errorf("store limit = %d, want 2", got)
	}

	// Refresh reuses the last limit.
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := e.Snapshot().Len(); got != 2 {
		t.Errorf("Len() after refresh = %d, want 2", got)
	}
}

func TestEngine_SingleFlight(t *testing.T) {
	t.Parallel()

	e, catalog, _ := newTestEngine(t, fixtureItems(), nil)
	catalog.gate = make(chan struct{})

	const callers = 8
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			err := e.EnsureLoaded(context.Background())
			if err == nil && e.Snapshot() == nil {
				err = errors.New("returned before the snapshot was published")
			}
			errs <- err
		}()
	}

	waitFor(t, func() bool { return e.Status().Building })
	time.Sleep(20 * time.Millisecond)
	close(catalog.gate)

	for i := 0; i < callers; i++ {
		if err := <-errs; err != nil {
			t.Errorf("caller %d: %v", i, err)
		}
	}
	if got := catalog.calls.Load(); got != 1 {
		t.Errorf("catalog loaded %d times, want 1", got)
	}
	if got := e.Status().Generation; got != 1 {
		t.Errorf("Generation = %d, want 1", got)
	}
}

func TestEngine_LoadDuringBuildQueuesFollowUp(t *testing.T) {
	t.Parallel()

	e, catalog, _ := newTestEngine(t, fixtureItems(), nil)
	catalog.gate = make(chan struct{})

	lazy := make(chan error, 1)
	go func() { lazy <- e.EnsureLoaded(context.Background()) }()
	waitFor(t, func() bool { return catalog.calls.Load() == 1 })

	loaded := make(chan error, 1)
	go func() { loaded <- e.Load(context.Background(), 2) }()
	time.Sleep(20 * time.Millisecond)
	close(catalog.gate)

	if err := <-lazy; err != nil {
		t.Fatalf("EnsureLoaded() error = %v", err)
	}
	if err := <-loaded; err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := e.Snapshot().Len(); got != 2 {
		t.Errorf("Len() after Load(2) = %d, want 2 (catalog has %d)", got, len(fixtureItems()))
	}
	if got := catalog.lastLimit.Load(); got != 2 {
		t.Errorf("store limit = %d, want 2", got)
	}
	if got := e.Status().Generation; got != 2 {
		t.Errorf("Generation = %d, want 2", got)
	}
}

func TestEngine_RefreshDuringBuildSeesNewEvents(t *testing.T) {
	t.Parallel()

	e, catalog, inter := loadedEngine(t, fixtureItems(), nil)
	catalog.gate = make(chan struct{})

	first := make(chan error, 1)
	go func() { first <- e.Refresh(context.Background()) }()
	waitFor(t, func() bool { return inter.loadCalls.Load() == 2 })

	// These arrive after the running build read the log; they share one
	// follow-up build.
	inter.add(click("u9", "m1"), click("u9", "m2"))
	const late = 3
	errs := make(chan error, late)
	for i := 0; i < late; i++ {
		go func() { errs <- e.Refresh(context.Background()) }()
	}
	time.Sleep(20 * time.Millisecond)
	close(catalog.gate)

	if err := <-first; err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	for i := 0; i < late; i++ {
		if err := <-errs; err != nil {
			t.Errorf("late Refresh() %d: %v", i, err)
		}
	}
	if got := e.Snapshot().Events(); got != 2 {
		t.Errorf("Events() = %d, want 2", got)
	}
	if got := catalog.calls.Load(); got != 3 {
		t.Errorf("catalog loaded %d times, want 3 (load, refresh, one follow-up)", got)
	}
}

func TestEngine_SnapshotIDUniquePerBuild(t *testing.T) {
	t.Parallel()

	e, _, _ := loadedEngine(t, fixtureItems(), nil)
	first := e.Snapshot().ID
	if first == "" {
		t.Fatal("snapshot ID is empty")
	}
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := e.Snapshot().ID; got == first {
		t.Errorf("snapshot ID %q reused after refresh", got)
	}

	other, _, _ := loadedEngine(t, fixtureItems(), nil)
	if other.Snapshot().Generation != 1 || other.Snapshot().ID == first {
		t.Errorf("second engine: generation %d, ID %q", other.Snapshot().Generation, other.Snapshot().ID)
	}
	if got := e.Status().SnapshotID; got != e.Snapshot().ID {
		t.Errorf("Status().SnapshotID = %q, want %q", got, e.Snapshot().ID)
	}
}

func TestEngine_WithSnapshotPinsQueries(t *testing.T) {
	t.Parallel()

	e, catalog, _ := loadedEngine(t, fixtureItems(), nil)
	pinned := e.Snapshot()

	catalog.set(fixtureItems()[:2], nil)
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	ctx := WithSnapshot(context.Background(), pinned)
	list, err := e.TopRated(ctx, TopQuery{N: 100})
	if err != nil {
		t.Fatalf("TopRated() error = %v", err)
	}
	if len(list) != pinned.Len() {
		t.Errorf("pinned TopRated returned %d items, want %d", len(list), pinned.Len())
	}

	list, err = e.TopRated(context.Background(), TopQuery{N: 100})
	if err != nil {
		t.Fatalf("TopRated() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("active TopRated returned %d items, want 2", len(list))
	}
}

func TestEngine_CanceledWaiterDoesNotCancelBuild(t *testing.T) {
	t.Parallel()

	e, catalog, _ := newTestEngine(t, fixtureItems(), nil)
	catalog.gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Load(ctx, 0) }()

	waitFor(t, func() bool { return e.Status().Building })
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Load() error = %v, want context.Canceled", err)
	}

	close(catalog.gate)
	waitFor(t, func() bool { return e.Status().Ready })
}

func TestEngine_EnsureLoadedIsNoopOnceReady(t *testing.T) {
	t.Parallel()

	e, catalog, _ := loadedEngine(t, fixtureItems(), nil)
	if err := e.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("EnsureLoaded() error = %v", err)
	}
	if got := catalog.calls.Load(); got != 1 {
		t.Errorf("catalog loaded %d times, want 1", got)
	}
}

func TestEngine_HistoryFallsBackToSnapshot(t *testing.T) {
	t.Parallel()

	events := []Event{click("u6", "m2"), click("u6", "m2")}
	e, _, inter := loadedEngine(t, fixtureItems(), events)
	inter.mu.Lock()
	inter.userErr = errors.New("opinions unreachable")
	inter.mu.Unlock()

	list, ok, err := e.UnfinishedFor(context.Background(), "u6", 10)
	if err != nil || !ok {
		t.Fatalf("UnfinishedFor() = (%v, %v, %v), want results", list, ok, err)
	}
	if list[0].Item.ID != "m2" || list[0].UserClicks != 2 {
		t.Errorf("UnfinishedFor() = %+v, want m2 with 2 clicks", list[0])
	}
}

func TestEngine_LiveHistorySeesNewEvents(t *testing.T) {
	t.Parallel()

	e, _, inter := loadedEngine(t, fixtureItems(), nil)
	inter.add(click("late", "m5"))

	_, ok, err := e.UnfinishedFor(context.Background(), "late", 5)
	if err != nil || !ok {
		t.Fatalf("UnfinishedFor() ok = %v, err = %v, want the event recorded after the build", ok, err)
	}
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrDataUnavailable, "unavailable"},
		{&NotFoundError{Kind: "title", Key: "x"}, "not_found"},
		{&EmptyResultError{Query: "genre"}, "empty"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := outcome(tt.err); got != tt.want {
			t.Errorf("outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
