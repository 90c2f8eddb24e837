// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
)

// SubscriberFactory opens a fresh subscriber for each Serve call, since a
// closed Watermill router or subscriber cannot be restarted.
type SubscriberFactory func() (message.Subscriber, error)

// Listener consumes opinion events and notifies the debouncer.
type Listener struct {
	cfg       Config
	subscribe SubscriberFactory
	notifier  Notifier
	logger    zerolog.Logger
	wmLogger  *LoggerAdapter

	accepted atomic.Int64
	rejected atomic.Int64
	running  atomic.Pointer[message.Router]
}

// NewListener creates a listener for cfg.Subject.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewListener(cfg Config, subscribe SubscriberFactory, notifier Notifier, logger zerolog.Logger) *Listener {
	logger = logger.With().Str("service", "opinion-listener").Logger()
	return &Listener{
		cfg:       cfg,
		subscribe: subscribe,
		notifier:  notifier,
		logger:    logger,
		wmLogger:  NewLoggerAdapter(logger),
	}
}

// Serve implements suture.Service. It blocks until ctx is canceled or the
// subscription fails.
func (l *Listener) Serve(ctx context.Context) error {
	sub, err := l.subscribe()
	if err != nil {
		return fmt.Errorf("open opinion subscriber: %w", err)
	}

	closeTimeout := l.cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = 10 * time.Second
	}
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: closeTimeout}, l.wmLogger)
	if err != nil {
		_ = sub.Close()
		return fmt.Errorf("create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Recoverer)
	if l.cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      l.cfg.RetryMaxRetries,
			InitialInterval: l.cfg.RetryInitialInterval,
			Logger:          l.wmLogger,
		}
		router.AddMiddleware(retry.Middleware)
	}
	router.AddConsumerHandler("opinion-events", l.cfg.Subject, sub, l.handle)

	l.running.Store(router)
	defer l.running.Store(nil)

	l.logger.Info().
		Str("subject", l.cfg.Subject).
		Str("queue_group", l.cfg.QueueGroup).
		Bool("jetstream", l.cfg.JetStream).
		Msg("Listening for opinion events")

	runErr := router.Run(ctx)
	if cerr := sub.Close(); cerr != nil {
		l.logger.Debug().Err(cerr).Msg("Closing opinion subscriber")
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runErr == nil {
		runErr = errors.New("opinion router stopped unexpectedly")
	}
	return runErr
}

// Running returns a channel closed once the router is consuming, or nil
// when the listener is not serving.
func (l *Listener) Running() chan struct{} {
	if r := l.running.Load(); r != nil {
		return r.Running()
	}
	return nil
}

// Stats returns the number of accepted and rejected messages.
func (l *Listener) Stats() (accepted, rejected int64) {
	return l.accepted.Load(), l.rejected.Load()
}

// handle acks every message. Malformed payloads are counted and dropped
// since redelivery cannot fix them.
func (l *Listener) handle(msg *message.Message) error {
	ev, err := DecodeOpinionEvent(msg.Payload)
	if err != nil {
		l.rejected.Add(1)
		metrics.OpinionEventsReceived.WithLabelValues("invalid").Inc()
		l.logger.Warn().
			Err(err).
			Str("message_uuid", msg.UUID).
			Int("payload_bytes", len(msg.Payload)).
			Msg("Dropping invalid opinion event")
		return nil
	}

	l.accepted.Add(1)
	metrics.OpinionEventsReceived.WithLabelValues("accepted").Inc()
	l.logger.Debug().
		Str("user_id", string(ev.UserID)).
		Str("movie_id", string(ev.MovieID)).
		Str("type", ev.Kind()).
		Msg("Opinion event received")
	l.notifier.Notify()
	return nil
}

// String implements fmt.Stringer for suture logs.
func (l *Listener) String() string {
	return "opinion-listener"
}
