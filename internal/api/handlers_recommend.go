// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// Recommendations handles GET /recommendations?userId=&n=
// Personalized for userId when given, top rated otherwise.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", 0)
	if err != nil {
		badParam(w, r, err)
		return
	}
	req := recommendationsRequest{UserID: r.URL.Query().Get("userId"), N: n}
	if !validate(w, r, &req) {
		return
	}

	base := recommendationPayload{UserID: req.UserID}
	if req.UserID == "" {
		h.serveList(w, r, listQuery{
			op:        "top",
			params:    topRequest{N: req.N},
			cacheable: true,
			base:      base,
			compute: func(ctx context.Context) (recommendationPayload, error) {
				list, err := h.engine.TopRated(ctx, recommend.TopQuery{N: req.N})
				if err != nil {
					return base, err
				}
				p := base
				p.setRows(toRows(list, false))
				return p, nil
			},
		})
		return
	}

	h.serveList(w, r, listQuery{
		op:     "personalized",
		params: req,
		base:   base,
		compute: func(ctx context.Context) (recommendationPayload, error) {
			list, err := h.engine.PersonalizedFor(ctx, req.UserID, req.N)
			if err != nil {
				return base, err
			}
			p := base
			p.setRows(toRows(list, true))
			return p, nil
		},
	})
}

// Similar handles GET /recommendations/similar/{title}
// Query: n, selfExclude (default true), useInteractions (default true).
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	var (
		req similarRequest
		err error
	)
	req.Title = pathParam(r, "title")
	if req.N, err = intParam(r, "n", 0); err != nil {
		badParam(w, r, err)
		return
	}
	if req.SelfExclude, err = boolParam(r, "selfExclude", true); err != nil {
		badParam(w, r, err)
		return
	}
	if req.UseInteractions, err = boolParam(r, "useInteractions", true); err != nil {
		badParam(w, r, err)
		return
	}
	if !validate(w, r, &req) {
		return
	}

	base := recommendationPayload{Movie: req.Title}
	h.serveList(w, r, listQuery{
		op:        "similar",
		params:    req,
		cacheable: true,
		base:      base,
		compute: func(ctx context.Context) (recommendationPayload, error) {
			list, err := h.engine.SimilarTo(ctx, req.Title, req.N, recommend.SimilarOptions{
				SelfExclude:     req.SelfExclude,
				UseInteractions: req.UseInteractions,
			})
			if err != nil {
				return base, err
			}
			p := base
			p.setRows(toRows(list, true))
			return p, nil
		},
	})
}

// Genre handles GET /recommendations/genre/{genre}?n=&excludeUserId=
func (h *Handler) Genre(w http.ResponseWriter, r *http.Request) {
	h.top(w, r, pathParam(r, "genre"))
}

// Top handles GET /recommendations/top?n=&genre=&excludeUserId=
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	h.top(w, r, r.URL.Query().Get("genre"))
}

func (h *Handler) top(w http.ResponseWriter, r *http.Request, genre string) {
	n, err := intParam(r, "n", 0)
	if err != nil {
		badParam(w, r, err)
		return
	}
	req := topRequest{Genre: genre, N: n, ExcludeUserID: r.URL.Query().Get("excludeUserId")}
	if !validate(w, r, &req) {
		return
	}

	base := recommendationPayload{Genre: req.Genre, UserID: req.ExcludeUserID}
	h.serveList(w, r, listQuery{
		op:        "top",
		params:    req,
		cacheable: req.ExcludeUserID == "",
		base:      base,
		compute: func(ctx context.Context) (recommendationPayload, error) {
			list, err := h.engine.TopRated(ctx, recommend.TopQuery{
				Genre:         req.Genre,
				N:             req.N,
				ExcludeUserID: req.ExcludeUserID,
			})
			if err != nil {
				return base, err
			}
			p := base
			p.setRows(toRows(list, false))
			return p, nil
		},
	})
}

// FavoriteGenre handles GET /recommendations/favorite-genre/{userId}?n=
// Users without resolvable interactions get an empty list and no genre.
func (h *Handler) FavoriteGenre(w http.ResponseWriter, r *http.Request) {
	req, ok := h.userRequest(w, r)
	if !ok {
		return
	}

	base := recommendationPayload{UserID: req.UserID}
	h.serveList(w, r, listQuery{
		op:     "favorite_genre",
		params: req,
		base:   base,
		compute: func(ctx context.Context) (recommendationPayload, error) {
			rec, err := h.engine.RecommendByFavoriteGenre(ctx, req.UserID, req.N)
			if err != nil {
				return base, err
			}
			p := base
			p.setRows(toRows(rec.Items, false))
			switch {
			case !rec.HasGenre:
				p.Message = "user has no interactions with catalog movies"
			case len(rec.Items) == 0:
				p.FavoriteGenre = &rec.Genre
				p.Message = "user has rated every movie of their favorite genre"
			default:
				p.FavoriteGenre = &rec.Genre
			}
			return p, nil
		},
	})
}

// Unfinished handles GET /recommendations/unfinished/{userId}?n=
// Movies the user clicked but never rated, most clicked first.
func (h *Handler) Unfinished(w http.ResponseWriter, r *http.Request) {
	req, ok := h.userRequest(w, r)
	if !ok {
		return
	}

	base := recommendationPayload{UserID: req.UserID}
	h.serveList(w, r, listQuery{
		op:     "unfinished",
		params: req,
		base:   base,
		compute: func(ctx context.Context) (recommendationPayload, error) {
			list, found, err := h.engine.UnfinishedFor(ctx, req.UserID, req.N)
			if err != nil {
				return base, err
			}
			p := base
			p.setRows(toRows(list, false))
			if !found {
				p.Message = "user has no unrated clicked movies"
			}
			return p, nil
		},
	})
}

func (h *Handler) userRequest(w http.ResponseWriter, r *http.Request) (userRequest, bool) {
	n, err := intParam(r, "n", 0)
	if err != nil {
		badParam(w, r, err)
		return userRequest{}, false
	}
	req := userRequest{UserID: pathParam(r, "userId"), N: n}
	return req, validate(w, r, &req)
}

// refreshResult is the data of POST /recommendations/refresh.
type refreshResult struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Generation uint64 `json:"generation"`
	Items      int    `json:"items"`
	Events     int    `json:"events"`
	DurationMS int64  `json:"build_duration_ms"`
}

// Refresh handles POST /recommendations/refresh.
// Calls within the configured minimum interval get 429. Concurrent calls
// join the build in flight.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.refresh.Allow() {
		metrics.RecordRefreshTrigger("api_throttled", nil)
		w.Header().Set("Retry-After", "10")
		respondError(w, r, http.StatusTooManyRequests, "REFRESH_THROTTLED", "Refresh requested too frequently", nil)
		return
	}

	err := h.engine.Refresh(r.Context())
	metrics.RecordRefreshTrigger("api", err)
	if err != nil {
		respondEngineError(w, r, err, recommendationPayload{})
		return
	}

	st := h.engine.Status()
	respond(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data: refreshResult{
			Status:     "success",
			Message:    "Recommender refreshed",
			Generation: st.Generation,
			Items:      st.Items,
			Events:     st.Events,
			DurationMS: st.BuildDurationMS,
		},
		Metadata: Metadata{Timestamp: time.Now(), Generation: st.Generation},
	})
}

// Status handles GET /api/v1/recommendations/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	respondJSON(w, http.StatusOK, &APIResponse{
		Status:   "success",
		Data:     st,
		Metadata: Metadata{Timestamp: time.Now(), Generation: st.Generation},
	})
}
