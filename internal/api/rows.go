// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package api

import (
	"time"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// movieRow is one recommended movie as returned to clients.
type movieRow struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Year             int      `json:"year,omitempty"`
	Genres           []string `json:"genres"`
	Directors        []string `json:"directors"`
	Poster           string   `json:"poster,omitempty"`
	CosineSim        *float64 `json:"cosine_sim,omitempty"`
	ClickCount       int      `json:"click_count"`
	RatingCount      int      `json:"rating_count"`
	AvgUserRating    float64  `json:"avg_user_rating"`
	InteractionScore float64  `json:"interaction_score"`
	CombinedRating   float64  `json:"combined_rating"`
	WeightedRating   float64  `json:"weighted_rating"`
	SourceRating     float64  `json:"source_rating,omitempty"`
	UserClicks       int      `json:"user_clicks,omitempty"`
	FinalScore       float64  `json:"final_score"`
}

// recommendationPayload is the data of every list endpoint. Only the
// fields of the serving endpoint are set.
type recommendationPayload struct {
	UserID          string     `json:"userId,omitempty"`
	Movie           string     `json:"movie,omitempty"`
	Genre           string     `json:"genre,omitempty"`
	FavoriteGenre   *string    `json:"favoriteGenre,omitempty"`
	Recommendations []movieRow `json:"recommendations"`
	Count           int        `json:"count"`
	Message         string     `json:"message,omitempty"`
}

func (p *recommendationPayload) setRows(rows []movieRow) {
	p.Recommendations = rows
	p.Count = len(rows)
}

// toRows converts a ranked list. withSimilarity exposes the cosine column
// for the rankings that compute one.
func toRows(list recommend.RankedList, withSimilarity bool) []movieRow {
	rows := make([]movieRow, len(list))
	for i := range list {
		s := &list[i]
		rows[i] = movieRow{
			ID:               s.Item.ID,
			Title:            s.Item.Title,
			Year:             s.Item.Year,
			Genres:           nonNil(s.Item.Genres),
			Directors:        nonNil(s.Item.Directors),
			Poster:           s.Item.Poster,
			ClickCount:       s.Clicks,
			RatingCount:      s.RatingCount,
			AvgUserRating:    s.AvgUserRating,
			InteractionScore: s.InteractionScore,
			CombinedRating:   s.CombinedRating,
			WeightedRating:   s.WeightedRating,
			SourceRating:     s.SourceRating,
			UserClicks:       s.UserClicks,
			FinalScore:       s.Score,
		}
		if withSimilarity {
			sim := s.Similarity
			rows[i].CosineSim = &sim
		}
	}
	return rows
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func metadataNow() Metadata {
	return Metadata{Timestamp: time.Now()}
}
