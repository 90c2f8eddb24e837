// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

//go:build integration

package testinfra

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"
)

func TestMongoContainer_Integration(t *testing.T) {
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongo, err := NewMongoContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to create MongoDB container: %v", err)
	}
	defer CleanupContainer(t, ctx, mongo.Container)

	if !strings.HasPrefix(mongo.URI, "mongodb://") {
		t.Errorf("URI = %q, want mongodb:// scheme", mongo.URI)
	}

	conn, err := net.DialTimeout("tcp", strings.TrimPrefix(mongo.URI, "mongodb://"), 5*time.Second)
	if err != nil {
		t.Fatalf("dial %s: %v\n%s", mongo.URI, err, ContainerLogs(ctx, mongo.Container))
	}
	_ = conn.Close()
}
