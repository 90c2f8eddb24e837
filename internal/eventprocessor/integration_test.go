// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

//go:build integration

package eventprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/giuliagiacomodonato/dcicflix/internal/testinfra"
)

func TestListener_NATS_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	server, err := testinfra.NewNATSContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create NATS container: %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, server.Container)

	cfg := DefaultConfig()
	cfg.URL = server.URL

	ref := &countingRefresher{}
	d := NewDebouncer(ref, 50*time.Millisecond, 0, zerolog.Nop())
	startDebouncer(t, d)

	adapter := NewLoggerAdapter(zerolog.Nop())
	l := NewListener(cfg, func() (message.Subscriber, error) {
		return NewNATSSubscriber(&cfg, adapter)
	}, d, zerolog.Nop())

	serveCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = l.Serve(serveCtx) }()

	waitFor(t, 30*time.Second, func() bool {
		running := l.Running()
		if running == nil {
			return false
		}
		select {
		case <-running:
			return true
		default:
			return false
		}
	})

	nc, err := natsgo.Connect(server.URL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer nc.Close()

	// Plain JSON, published the way the opinions service does it.
	for _, p := range []string{
		`{"userId":"u1","movieId":"m1","movieTitle":"Heat","type":"click"}`,
		`{"userId":"u1","movieId":"m2","type":"rating","rating":4}`,
		`{"broken":`,
	} {
		if err := nc.Publish(cfg.Subject, []byte(p)); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if err := nc.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	waitFor(t, 30*time.Second, func() bool {
		accepted, rejected := l.Stats()
		return accepted == 2 && rejected == 1
	})
	waitFor(t, 10*time.Second, func() bool { return ref.calls.Load() >= 1 })
}
