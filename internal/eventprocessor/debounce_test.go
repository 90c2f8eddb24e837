// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package eventprocessor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingRefresher struct {
	calls atomic.Int64
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls.Add(1)
	return r.err
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func startDebouncer(t *testing.T, d *Debouncer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	})
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	t.Parallel()

	ref := &countingRefresher{}
	d := NewDebouncer(ref, 50*time.Millisecond, 0, zerolog.Nop())
	startDebouncer(t, d)

	for i := 0; i < 10; i++ {
		d.Notify()
	}

	waitFor(t, 2*time.Second, func() bool { return ref.calls.Load() == 1 })
	time.Sleep(150 * time.Millisecond)
	if got := ref.calls.Load(); got != 1 {
		t.Errorf("Refresh calls = %d, want 1", got)
	}

	d.Notify()
	waitFor(t, 2*time.Second, func() bool { return ref.calls.Load() == 2 })
	if got := d.Fired(); got != 2 {
		t.Errorf("Fired() = %d, want 2", got)
	}
}

func TestDebouncer_MaxWaitBoundsDelay(t *testing.T) {
	t.Parallel()

	ref := &countingRefresher{}
	d := NewDebouncer(ref, time.Hour, 30*time.Millisecond, zerolog.Nop())
	startDebouncer(t, d)

	d.Notify()
	waitFor(t, 2*time.Second, func() bool { return ref.calls.Load() == 1 })
}

func TestDebouncer_NotifyBeforeServe(t *testing.T) {
	t.Parallel()

	ref := &countingRefresher{}
	d := NewDebouncer(ref, 10*time.Millisecond, 0, zerolog.Nop())
	d.Notify()
	d.Notify()
	startDebouncer(t, d)

	waitFor(t, 2*time.Second, func() bool { return ref.calls.Load() == 1 })
}

func TestDebouncer_RefreshErrorKeepsRunning(t *testing.T) {
	t.Parallel()

	ref := &countingRefresher{err: errors.New("mongo down")}
	d := NewDebouncer(ref, 10*time.Millisecond, 0, zerolog.Nop())
	startDebouncer(t, d)

	d.Notify()
	waitFor(t, 2*time.Second, func() bool { return ref.calls.Load() == 1 })
	d.Notify()
	waitFor(t, 2*time.Second, func() bool { return ref.calls.Load() == 2 })
}

func TestDebouncer_NotifyNeverBlocks(t *testing.T) {
	t.Parallel()

	d := NewDebouncer(&countingRefresher{}, time.Second, 0, zerolog.Nop())
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			d.Notify()
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked without a running debouncer")
	}
}
