// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

// movieDocument is a catalog entry as stored in MongoDB.
type movieDocument struct {
	ID        any      `bson:"_id"`
	Title     string   `bson:"title"`
	Year      any      `bson:"year"`
	Genres    []string `bson:"genres"`
	Directors []string `bson:"directors"`
	Cast      []string `bson:"cast"`
	Plot      string   `bson:"plot"`
	Poster    string   `bson:"poster"`
	IMDB      struct {
		Rating any `bson:"rating"`
		Votes  any `bson:"votes"`
	} `bson:"imdb"`
}

// opinionDocument is one click or rating as stored by the opinion consumer.
type opinionDocument struct {
	UserID     any    `bson:"userId"`
	MovieID    any    `bson:"movieId"`
	MovieTitle string `bson:"movieTitle"`
	Type       string `bson:"type"`
	Rating     any    `bson:"rating"`
	Timestamp  any    `bson:"timestamp"`
}

func (d *movieDocument) toItem() (recommend.Item, error) {
	id := asString(d.ID)
	if id == "" {
		return recommend.Item{}, fmt.Errorf("movie %q has no _id", d.Title)
	}
	rating, _ := asFloat64(d.IMDB.Rating)
	votes, _ := asFloat64(d.IMDB.Votes)
	year, _ := asFloat64(d.Year)

	return recommend.Item{
		ID:        id,
		Title:     strings.TrimSpace(d.Title), // the API trims path titles the same way
		Year:      int(year),
		Genres:    d.Genres,
		Directors: d.Directors,
		Cast:      d.Cast,
		Plot:      d.Plot,
		Poster:    d.Poster,
		External: recommend.ExternalRating{
			Rating: rating,
			Votes:  int64(votes),
		},
	}, nil
}

func (d *opinionDocument) toEvent() (recommend.Event, error) {
	ev := recommend.Event{
		UserID: asString(d.UserID),
		ItemID: asString(d.MovieID),
		Kind:   recommend.EventKind(strings.ToLower(strings.TrimSpace(d.Type))),
	}
	if ev.Kind == "" {
		ev.Kind = recommend.EventClick
	}
	if !ev.Kind.Valid() {
		return recommend.Event{}, fmt.Errorf("unknown opinion type %q", d.Type)
	}
	if ev.ItemID == "" {
		return recommend.Event{}, fmt.Errorf("opinion has no movieId")
	}

	if r, ok := asFloat64(d.Rating); ok {
		if r < 0 || r > 5 {
			return recommend.Event{}, fmt.Errorf("rating %v out of range [0, 5]", r)
		}
		ev.Rating = &r
	}
	ev.Timestamp = asTime(d.Timestamp)
	return ev, nil
}

// asString converts ids stored as strings, ObjectIDs or numbers.
func asString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case primitive.ObjectID:
		return x.Hex()
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// asFloat64 converts numbers and numeric strings. ok is false for
// missing or non-numeric values.
func asFloat64(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case float64:
		f = x
	case string:
		// Imports write thousands separators into vote counts.
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(x), ",", ""), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// asTime converts BSON dates, epoch seconds and RFC 3339 strings.
func asTime(v any) time.Time {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case time.Time:
		return x.UTC()
	case int32:
		return time.Unix(int64(x), 0).UTC()
	case int64:
		return time.Unix(x, 0).UTC()
	case float64:
		return time.Unix(int64(x), 0).UTC()
	case string:
		t, err := time.Parse(time.RFC3339, x)
		if err != nil {
			return time.Time{}
		}
		return t.UTC()
	default:
		return time.Time{}
	}
}
