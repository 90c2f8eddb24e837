// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

// Package cache caches encoded recommendation responses.
//
// Two layers are combined by Layered:
//
//   - LRUCache: in-process, bounded, TTL-based, O(1) operations.
//   - RedisCache: optional shared layer behind a circuit breaker. Errors
//     read as misses.
//
// Keys embed the snapshot ID (see Key), which is unique per build across
// replicas and restarts, so a rebuild invalidates every cached response
// without an explicit flush:
//
//	key := cache.Key("top", snap.ID, query)
//	if list, ok := cache.GetJSON[recommend.RankedList](ctx, store, key); ok {
//	    return list
//	}
//
// Hits and misses are reported per layer in cache_hits_total and
// cache_misses_total.
package cache
