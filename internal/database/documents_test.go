// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package database

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
)

func TestMovieDocument_ToItem(t *testing.T) {
	t.Parallel()

	oid := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.M{
		"_id":       oid,
		"title":     " Heat ",
		"year":      int32(1995),
		"genres":    bson.A{"Action", "Crime"},
		"directors": bson.A{"Michael Mann"},
		"cast":      bson.A{"Al Pacino", "Robert De Niro"},
		"plot":      "A detective chases a thief.",
		"poster":    "https://example.com/heat.jpg",
		"imdb":      bson.M{"rating": 8.3, "votes": "712,345"},
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var doc movieDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	item, err := doc.toItem()
	if err != nil {
		t.Fatalf("toItem() error = %v", err)
	}

	want := recommend.Item{
		ID:        oid.Hex(),
		Title:     "Heat",
		Year:      1995,
		Genres:    []string{"Action", "Crime"},
		Directors: []string{"Michael Mann"},
		Cast:      []string{"Al Pacino", "Robert De Niro"},
		Plot:      "A detective chases a thief.",
		Poster:    "https://example.com/heat.jpg",
		External:  recommend.ExternalRating{Rating: 8.3, Votes: 712345},
	}
	if !reflect.DeepEqual(item, want) {
		t.Errorf("toItem() = %+v, want %+v", item, want)
	}
}

func TestMovieDocument_MissingFields(t *testing.T) {
	t.Parallel()

	doc := movieDocument{ID: "tt0113277", Title: "Heat"}
	doc.IMDB.Rating = ""
	item, err := doc.toItem()
	if err != nil {
		t.Fatalf("toItem() error = %v", err)
	}
	if item.External != (recommend.ExternalRating{}) || item.Year != 0 {
		t.Errorf("missing numbers should decode as zero, got %+v", item)
	}

	if _, err := (&movieDocument{Title: "No ID"}).toItem(); err == nil {
		t.Error("toItem() without _id should fail")
	}
}

func TestOpinionDocument_ToEvent(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	four := 4.0

	tests := []struct {
		name    string
		doc     opinionDocument
		want    recommend.Event
		wantErr bool
	}{
		{
			name: "click",
			doc:  opinionDocument{UserID: "u1", MovieID: "m1", Type: "click", Timestamp: primitive.NewDateTimeFromTime(ts)},
			want: recommend.Event{UserID: "u1", ItemID: "m1", Kind: recommend.EventClick, Timestamp: ts},
		},
		{
			name: "rating",
			doc:  opinionDocument{UserID: "u1", MovieID: "m1", Type: "rating", Rating: int32(4), Timestamp: ts},
			want: recommend.Event{UserID: "u1", ItemID: "m1", Kind: recommend.EventRating, Rating: &four, Timestamp: ts},
		},
		{
			name: "rating without value",
			doc:  opinionDocument{UserID: "u1", MovieID: "m1", Type: "rating"},
			want: recommend.Event{UserID: "u1", ItemID: "m1", Kind: recommend.EventRating},
		},
		{
			name: "missing type defaults to click",
			doc:  opinionDocument{UserID: int64(7), MovieID: "m1", Timestamp: int64(ts.Unix())},
			want: recommend.Event{UserID: "7", ItemID: "m1", Kind: recommend.EventClick, Timestamp: ts},
		},
		{
			name: "string timestamp",
			doc:  opinionDocument{UserID: "u1", MovieID: "m1", Type: "Click", Timestamp: "2025-03-01T12:00:00Z"},
			want: recommend.Event{UserID: "u1", ItemID: "m1", Kind: recommend.EventClick, Timestamp: ts},
		},
		{
			name:    "unknown type",
			doc:     opinionDocument{UserID: "u1", MovieID: "m1", Type: "purchase"},
			wantErr: true,
		},
		{
			name:    "rating out of range",
			doc:     opinionDocument{UserID: "u1", MovieID: "m1", Type: "rating", Rating: 9.5},
			wantErr: true,
		},
		{
			name:    "missing movie",
			doc:     opinionDocument{UserID: "u1", Type: "click"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.doc.toEvent()
			if tt.wantErr {
				if err == nil {
					t.Errorf("toEvent() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("toEvent() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("toEvent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAsFloat64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{int32(3), 3, true},
		{int64(1200), 1200, true},
		{7.5, 7.5, true},
		{"8.1", 8.1, true},
		{"1,234", 1234, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := asFloat64(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("asFloat64(%#v) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestUserFilter(t *testing.T) {
	t.Parallel()

	if got := userFilter(recommend.EventFilter{UserID: "u1"}); !reflect.DeepEqual(got, bson.M{"userId": "u1"}) {
		t.Errorf("userFilter() = %v", got)
	}
	got := userFilter(recommend.EventFilter{UserID: "u1", Kind: recommend.EventRating})
	if !reflect.DeepEqual(got, bson.M{"userId": "u1", "type": "rating"}) {
		t.Errorf("userFilter() = %v", got)
	}
}
