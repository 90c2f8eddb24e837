// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
)

// Refresher rebuilds the recommendation snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshServiceConfig controls when snapshots are rebuilt.
type RefreshServiceConfig struct {
	// OnStartup loads the first snapshot when the service starts, retrying
	// with backoff until it succeeds.
	OnStartup bool
	// Interval between scheduled rebuilds. Zero disables the schedule.
	Interval time.Duration
	// Timeout bounds a single rebuild. Zero means 10 minutes.
	Timeout time.Duration
	// RetryInitial and RetryMax bound the startup retry backoff.
	RetryInitial time.Duration
	RetryMax     time.Duration
}

// RefreshService loads the snapshot at startup and rebuilds it on a schedule.
type RefreshService struct {
	engine Refresher
	config RefreshServiceConfig
	logger zerolog.Logger
	name   string
}

// NewRefreshService creates the refresh scheduler.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewRefreshService(engine Refresher, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	if cfg.RetryInitial <= 0 {
		cfg.RetryInitial = time.Second
	}
	if cfg.RetryMax < cfg.RetryInitial {
		cfg.RetryMax = time.Minute
	}
	return &RefreshService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "refresh").Logger(),
		name:   "refresh-service",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("Refresh service starting")

	if s.config.OnStartup {
		if err := s.loadWithRetry(ctx); err != nil {
			return err
		}
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Refresh service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx, "schedule")
		}
	}
}

// loadWithRetry keeps trying until the first snapshot is built or ctx ends.
// A restart of this service after a successful load rebuilds once more.
func (s *RefreshService) loadWithRetry(ctx context.Context) error {
	backoff := s.config.RetryInitial
	for {
		if err := s.refresh(ctx, "startup"); err == nil {
			return nil
		}
		s.logger.Warn().Dur("retry_in", backoff).Msg("Initial snapshot load failed")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, s.config.RetryMax)
	}
}

func (s *RefreshService) refresh(ctx context.Context, source string) error {
	refreshCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	err := s.engine.Refresh(refreshCtx)
	metrics.RecordRefreshTrigger(source, err)
	if err != nil {
		s.logger.Warn().Err(err).Str("source", source).Msg("Snapshot refresh failed")
		return err
	}
	s.logger.Info().
		Str("source", source).
		Dur("duration", time.Since(start)).
		Msg("Snapshot refreshed")
	return nil
}

// String implements fmt.Stringer for suture logs.
func (s *RefreshService) String() string {
	return s.name
}
