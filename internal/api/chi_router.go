// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giuliagiacomodonato/dcicflix/internal/middleware"
)

// Router wires the handler and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// chiMiddleware adapts http.HandlerFunc middleware to chi's r.Use.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi builds the HTTP handler.
//
// Routes live under /api/v1 with the JSON envelope, and at the unversioned
// paths of the first API generation with its flat bodies.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		router.recommendationRoutes(r)
		r.Get("/status", router.handler.Status)
	})

	r.Group(func(r chi.Router) {
		r.Use(withLegacyFormat)
		r.With(router.chiMiddleware.RateLimitHealth()).Get("/health", router.handler.Health)
		r.Route("/recommendations", func(r chi.Router) {
			r.Use(chiMiddleware(middleware.PrometheusMetrics))
			router.recommendationRoutes(r)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func (router *Router) recommendationRoutes(r chi.Router) {
	h := router.handler
	r.With(router.chiMiddleware.RateLimitRefresh()).Post("/refresh", h.Refresh)

	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit("recommendations"))
		r.Use(chiMiddleware(middleware.Compression))
		r.Get("/", h.Recommendations)
		r.Get("/top", h.Top)
		r.Get("/similar/{title}", h.Similar)
		r.Get("/genre/{genre}", h.Genre)
		r.Get("/favorite-genre/{userId}", h.FavoriteGenre)
		r.Get("/unfinished/{userId}", h.Unfinished)
	})
}
