// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package cache

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
)

// Store is a byte cache keyed by string.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Layered reads the local LRU first, then Redis, and writes both.
// Redis hits are copied into the local layer.
type Layered struct {
	local  *LRUCache
	remote *RedisCache // nil when Redis is disabled
}

// NewLayered combines local and remote. remote may be nil.
func NewLayered(local *LRUCache, remote *RedisCache) *Layered {
	local.onEvict = func() {
		metrics.CacheEvictions.WithLabelValues("local").Inc()
	}
	return &Layered{local: local, remote: remote}
}

// Get implements Store.
func (l *Layered) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := l.local.Get(key); ok {
		metrics.RecordCacheLookup("local", true)
		return val, true
	}
	metrics.RecordCacheLookup("local", false)

	if l.remote == nil {
		return nil, false
	}
	val, ok := l.remote.Get(ctx, key)
	metrics.RecordCacheLookup("redis", ok)
	if ok {
		l.local.Set(key, val)
	}
	return val, ok
}

// Set implements Store.
func (l *Layered) Set(ctx context.Context, key string, value []byte) {
	l.local.Set(key, value)
	metrics.CacheSize.WithLabelValues("local").Set(float64(l.local.Len()))
	if l.remote != nil {
		l.remote.Set(ctx, key, value)
	}
}

// Local returns the in-process layer.
func (l *Layered) Local() *LRUCache { return l.local }

// Key builds a cache key for a query against one snapshot. snapshotID must
// be unique per build in every process sharing the store; a rebuild
// changes it, so entries of older snapshots are never read again and age
// out.
func Key(prefix, snapshotID string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%s:%v", prefix, snapshotID, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s:%x", prefix, snapshotID, hash[:16])
}

// GetJSON decodes a cached value into T.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T
	data, ok := s.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, false
	}
	return out, true
}

// SetJSON encodes value and stores it. Values that cannot be encoded are
// not cached.
func SetJSON(ctx context.Context, s Store, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.Set(ctx, key, data)
}
