// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package eventprocessor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
)

// Refresher rebuilds the recommendation snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Notifier is told that new data has arrived.
type Notifier interface {
	Notify()
}

// Debouncer coalesces bursts of notifications into a single Refresh.
// It runs as a suture.Service; notifications sent while it is stopped are
// kept until the next Serve.
type Debouncer struct {
	refresher Refresher
	wait      time.Duration
	maxWait   time.Duration
	notify    chan struct{}
	logger    zerolog.Logger

	pending atomic.Int64
	fired   atomic.Int64
}

// NewDebouncer creates a debouncer that refreshes after wait of quiet, or
// maxWait after the first pending notification when maxWait is positive.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewDebouncer(refresher Refresher, wait, maxWait time.Duration, logger zerolog.Logger) *Debouncer {
	return &Debouncer{
		refresher: refresher,
		wait:      wait,
		maxWait:   maxWait,
		notify:    make(chan struct{}, 1),
		logger:    logger.With().Str("service", "refresh-debouncer").Logger(),
	}
}

// Notify records an event. It never blocks.
func (d *Debouncer) Notify() {
	d.pending.Add(1)
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// Fired returns how many refreshes the debouncer has triggered.
func (d *Debouncer) Fired() int64 {
	return d.fired.Load()
}

// Serve implements suture.Service.
func (d *Debouncer) Serve(ctx context.Context) error {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		firstAt time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-d.notify:
			now := time.Now()
			if timerC == nil {
				firstAt = now
			}
			delay := d.wait
			if d.maxWait > 0 {
				if remaining := firstAt.Add(d.maxWait).Sub(now); remaining < delay {
					delay = max(remaining, 0)
				}
			}
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			d.fire(ctx)
		}
	}
}

func (d *Debouncer) fire(ctx context.Context) {
	events := d.pending.Swap(0)
	start := time.Now()
	err := d.refresher.Refresh(ctx)
	d.fired.Add(1)
	metrics.RecordRefreshTrigger("event", err)
	if err != nil {
		d.logger.Warn().Err(err).Int64("events", events).Msg("Event-triggered refresh failed")
		return
	}
	d.logger.Info().
		Int64("events", events).
		Dur("duration", time.Since(start)).
		Msg("Snapshot refreshed after opinion events")
}

// String implements fmt.Stringer for suture logs.
func (d *Debouncer) String() string {
	return "refresh-debouncer"
}
