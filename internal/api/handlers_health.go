// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// healthCheckTimeout bounds each dependency check.
const healthCheckTimeout = 2 * time.Second

// DependencyStatus is the result of one HealthCheck.
type DependencyStatus struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// HealthStatus is the data of /health.
type HealthStatus struct {
	Status       string             `json:"status"`
	Service      string             `json:"service"`
	Version      string             `json:"version"`
	Uptime       float64            `json:"uptime_seconds"`
	Snapshot     recommend.Status   `json:"snapshot"`
	Dependencies []DependencyStatus `json:"dependencies,omitempty"`
}

// Health handles GET /health. It always answers 200 while the process is
// up; status is "healthy", "starting" before the first snapshot, or
// "degraded" when a dependency check fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Status()
	deps := h.runChecks(r.Context())

	status := "healthy"
	switch {
	case !snap.Ready:
		status = "starting"
	case !allHealthy(deps):
		status = "degraded"
	}

	respond(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data: HealthStatus{
			Status:       status,
			Service:      "recommender",
			Version:      h.version,
			Uptime:       time.Since(h.startTime).Seconds(),
			Snapshot:     snap,
			Dependencies: deps,
		},
		Metadata: Metadata{Timestamp: time.Now(), Generation: snap.Generation},
	})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: metadataNow(),
	})
}

// HealthReady handles GET /api/v1/health/ready. The service is ready once a
// snapshot is published, or, with lazy loading, once every dependency
// answers so that the first query can build one.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Status()
	deps := h.runChecks(r.Context())

	ready := snap.Ready || (h.lazyLoad && allHealthy(deps))
	code, status := http.StatusOK, "ready"
	if !ready {
		code, status = http.StatusServiceUnavailable, "not_ready"
	}

	respondJSON(w, code, &APIResponse{
		Status: status,
		Data: map[string]any{
			"snapshot_ready": snap.Ready,
			"generation":     snap.Generation,
			"last_error":     snap.LastError,
			"dependencies":   deps,
		},
		Metadata: metadataNow(),
	})
}

// runChecks runs the health checks concurrently, sorted by name.
func (h *Handler) runChecks(ctx context.Context) []DependencyStatus {
	if len(h.checks) == 0 {
		return nil
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make([]DependencyStatus, 0, len(h.checks))
	)
	for name, check := range h.checks {
		wg.Add(1)
		go func(name string, check HealthCheck) {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
			defer cancel()

			start := time.Now()
			err := check(cctx)
			st := DependencyStatus{Name: name, Healthy: err == nil, LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				st.Error = err.Error()
			}
			mu.Lock()
			out = append(out, st)
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func allHealthy(deps []DependencyStatus) bool {
	for _, d := range deps {
		if !d.Healthy {
			return false
		}
	}
	return true
}
