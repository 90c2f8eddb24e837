// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"context"
	"time"
)

// ExternalRating is the rating published by an external source (IMDb).
type ExternalRating struct {
	// Rating is on a 0-10 scale.
	Rating float64 `json:"rating"`

	// Votes is the number of external votes behind Rating.
	Votes int64 `json:"votes"`
}

// Item represents a catalog movie.
type Item struct {
	// ID is the catalog identifier.
	ID string `json:"id"`

	// Title is the lookup key for similarity queries.
	Title string `json:"title"`

	// Year is the release year.
	Year int `json:"year,omitempty"`

	// Genres is a slice of genre names.
	Genres []string `json:"genres"`

	// Directors is a slice of director names.
	Directors []string `json:"directors"`

	// Cast is a slice of actor names in billing order.
	Cast []string `json:"cast,omitempty"`

	// Plot is the synopsis.
	Plot string `json:"plot,omitempty"`

	// Poster is the poster image URL.
	Poster string `json:"poster,omitempty"`

	// External is the external rating source.
	External ExternalRating `json:"external"`
}

// EventKind is the type of an interaction event.
type EventKind string

const (
	// EventClick is a view or click on a movie.
	EventClick EventKind = "click"

	// EventRating is an explicit rating.
	EventRating EventKind = "rating"
)

// Valid reports whether k is a known kind.
func (k EventKind) Valid() bool {
	return k == EventClick || k == EventRating
}

// Event is one entry of the interaction log.
type Event struct {
	UserID string    `json:"user_id"`
	ItemID string    `json:"item_id"`
	Kind   EventKind `json:"kind"`

	// Rating is set for rating events, on a 0-5 scale. A rating event may
	// arrive without a value.
	Rating *float64 `json:"rating,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// EventFilter selects events of one user. An empty Kind matches every kind.
type EventFilter struct {
	UserID string
	Kind   EventKind
}

// CatalogStore is the read side of the movie catalog.
type CatalogStore interface {
	// LoadItems returns catalog items. limit <= 0 returns all of them.
	LoadItems(ctx context.Context, limit int) ([]Item, error)
}

// InteractionStore is the read side of the interaction log.
type InteractionStore interface {
	// LoadEvents returns the whole log.
	LoadEvents(ctx context.Context) ([]Event, error)

	// UserEvents returns the events matching filter.
	UserEvents(ctx context.Context, filter EventFilter) ([]Event, error)
}

// Aggregate summarizes the interactions of one item.
type Aggregate struct {
	Clicks           int     `json:"clicks"`
	RatingSum        float64 `json:"rating_sum"`
	RatingCount      int     `json:"rating_count"`
	AvgUserRating    float64 `json:"avg_user_rating"`
	InteractionScore float64 `json:"interaction_score"`
}

// Quality holds the rating signals of one item.
type Quality struct {
	CombinedRating float64 `json:"combined_rating"`
	TotalVotes     float64 `json:"total_votes"`
	WeightedRating float64 `json:"weighted_rating"`
}

// ScoredItem is one row of a ranked list.
type ScoredItem struct {
	// Item is the catalog movie.
	Item Item `json:"item"`

	Aggregate
	Quality

	// Score is the final score of the ranking that produced the row.
	Score float64 `json:"score"`

	// Similarity is the cosine similarity to the query item, or the averaged
	// similarity to the user's liked items for personalized results.
	Similarity float64 `json:"similarity,omitempty"`

	// SourceRating is the averaged rating of the liked items that surfaced
	// a personalized result.
	SourceRating float64 `json:"source_rating,omitempty"`

	// UserClicks is the requesting user's click count on the item.
	UserClicks int `json:"user_clicks,omitempty"`
}

// RankedList is an ordered recommendation result.
type RankedList []ScoredItem

// Titles returns the titles of the list in order.
func (l RankedList) Titles() []string {
	out := make([]string, len(l))
	for i, s := range l {
		out[i] = s.Item.Title
	}
	return out
}

// SimilarOptions controls SimilarTo.
type SimilarOptions struct {
	// SelfExclude drops the queried item from the result.
	SelfExclude bool

	// UseInteractions blends quality and engagement into the similarity.
	UseInteractions bool
}

// TopQuery controls TopRated.
type TopQuery struct {
	// Genre filters by case-insensitive substring of the item's genres.
	Genre string

	// N is the number of results.
	N int

	// ExcludeUserID removes items that user has rated.
	ExcludeUserID string
}

// GenreRecommendation is the result of RecommendByFavoriteGenre.
// HasGenre is false when the user has no resolvable interactions; Items may
// be empty when a favorite genre exists but every item in it is rated.
type GenreRecommendation struct {
	Genre    string     `json:"genre,omitempty"`
	HasGenre bool       `json:"has_genre"`
	Items    RankedList `json:"items"`
}

// Status describes the engine for health reporting.
type Status struct {
	// Ready is true once a snapshot has been published.
	Ready bool `json:"ready"`

	// Building is true while a build is in flight.
	Building bool `json:"building"`

	// Generation is the active snapshot generation.
	Generation uint64 `json:"generation"`

	// SnapshotID identifies the active snapshot across processes.
	SnapshotID string `json:"snapshot_id,omitempty"`

	// Items is the catalog size of the active snapshot.
	Items int `json:"items"`

	// Events is the number of interactions aggregated into it.
	Events int `json:"events"`

	// Terms is the vocabulary size.
	Terms int `json:"terms"`

	// BuiltAt is when the active snapshot was published.
	BuiltAt time.Time `json:"built_at,omitempty"`

	// BuildDurationMS is how long the active snapshot took to build.
	BuildDurationMS int64 `json:"build_duration_ms"`

	// LastError is the error of the most recent failed build, cleared by
	// the next successful one.
	LastError string `json:"last_error,omitempty"`
}
