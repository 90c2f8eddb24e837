// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package main

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/config"
	"github.com/giuliagiacomodonato/dcicflix/internal/eventprocessor"
	"github.com/giuliagiacomodonato/dcicflix/internal/supervisor"
)

// initEvents adds the opinion listener and its debouncer to the messaging
// layer when events are enabled.
//
//nolint:gocritic // zerolog.Logger is passed by value
func initEvents(cfg *config.Config, engine eventprocessor.Refresher, tree *supervisor.SupervisorTree, logger zerolog.Logger) error {
	if !cfg.Events.Enabled {
		logger.Info().Msg("Opinion events disabled (EVENTS_ENABLED=false)")
		return nil
	}

	evCfg := eventprocessor.ConfigFromEvents(cfg.Events)
	if err := evCfg.Validate(); err != nil {
		return fmt.Errorf("invalid events configuration: %w", err)
	}

	debouncer := eventprocessor.NewDebouncer(engine, evCfg.Debounce, evCfg.MaxWait, logger)
	wmLogger := eventprocessor.NewLoggerAdapter(logger.With().Str("component", "watermill").Logger())
	listener := eventprocessor.NewListener(evCfg, func() (message.Subscriber, error) {
		return eventprocessor.NewNATSSubscriber(&evCfg, wmLogger)
	}, debouncer, logger)

	tree.AddMessagingService(debouncer)
	tree.AddMessagingService(listener)

	logger.Info().
		Str("nats_url", evCfg.URL).
		Str("subject", evCfg.Subject).
		Dur("debounce", evCfg.Debounce).
		Bool("jetstream", evCfg.JetStream).
		Msg("Opinion event listener enabled")
	return nil
}
