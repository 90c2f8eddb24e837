// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/giuliagiacomodonato/dcicflix/internal/recommend/text"
)

// Snapshot is one immutable generation of the engine model. Index i refers
// to the same item in every table.
type Snapshot struct {
	// ID is unique per build across processes. Generation counts builds
	// within this process only.
	ID            string
	Generation    uint64
	BuiltAt       time.Time
	BuildDuration time.Duration

	Items      []Item
	Similarity *text.Matrix
	Aggregates []Aggregate
	Quality    []Quality

	terms      int
	events     int
	byTitle    map[string]int
	byID       map[string]int
	genreText  []string // lowercased, space-joined genres
	history    map[string][]Event
	maxWR      float64
	maxInter   float64
	duplicates int // items whose title was already indexed
}

// Len returns the number of items.
func (s *Snapshot) Len() int { return len(s.Items) }

// Terms returns the vocabulary size.
func (s *Snapshot) Terms() int { return s.terms }

// Events returns the number of events aggregated into the snapshot.
func (s *Snapshot) Events() int { return s.events }

// IndexOfTitle returns the index of the item with title. When several items
// share a title the last one in catalog order wins.
func (s *Snapshot) IndexOfTitle(title string) (int, bool) {
	i, ok := s.byTitle[title]
	return i, ok
}

// IndexOfID returns the index of the item with id.
func (s *Snapshot) IndexOfID(id string) (int, bool) {
	i, ok := s.byID[id]
	return i, ok
}

// History returns the events of userID captured at build time.
func (s *Snapshot) History(userID string) []Event {
	return s.history[userID]
}

// row builds a ScoredItem with the snapshot's per-item signals.
func (s *Snapshot) row(i int) ScoredItem {
	return ScoredItem{
		Item:      s.Items[i],
		Aggregate: s.Aggregates[i],
		Quality:   s.Quality[i],
	}
}

func (s *Snapshot) ratingNorm(i int) float64 {
	return normalize(s.Quality[i].WeightedRating, s.maxWR)
}

func (s *Snapshot) interactionNorm(i int) float64 {
	return normalize(s.Aggregates[i].InteractionScore, s.maxInter)
}

// buildSnapshot derives every table from items and events. It fails with a
// DataError when the catalog is empty or an item has no id.
func buildSnapshot(ctx context.Context, items []Item, events []Event, cfg *Config) (*Snapshot, error) {
	if len(items) == 0 {
		return nil, &DataError{Reason: "catalog is empty"}
	}

	s := &Snapshot{
		Items:     items,
		events:    len(events),
		byTitle:   make(map[string]int, len(items)),
		byID:      make(map[string]int, len(items)),
		genreText: make([]string, len(items)),
		history:   make(map[string][]Event),
	}

	docs := make([]string, len(items))
	for i, it := range items {
		if it.ID == "" {
			return nil, &DataError{Reason: fmt.Sprintf("item %d (%q) has no id", i, it.Title)}
		}
		if _, dup := s.byTitle[it.Title]; dup {
			s.duplicates++
		}
		s.byTitle[it.Title] = i
		s.byID[it.ID] = i
		s.genreText[i] = strings.ToLower(strings.Join(it.Genres, " "))
		docs[i] = text.Soup(text.Document{
			Title:     it.Title,
			Genres:    it.Genres,
			Directors: it.Directors,
			Cast:      it.Cast,
			Plot:      it.Plot,
		}, cfg.Text.TopCast)
	}

	model, err := text.Build(ctx, docs, text.Options{
		MaxFeatures: cfg.Text.MaxFeatures,
		Workers:     cfg.Text.Workers,
	})
	if err != nil {
		if errors.Is(err, text.ErrEmptyCorpus) {
			return nil, &DataError{Reason: "catalog is empty", Err: err}
		}
		return nil, err
	}
	s.Similarity = model.Similarity
	s.terms = model.Vocabulary.Len()

	s.Aggregates = AggregateInteractions(items, events, cfg.Interaction)
	s.Quality = ScoreQuality(items, s.Aggregates, cfg.Quality)

	for i := range items {
		if wr := s.Quality[i].WeightedRating; wr > s.maxWR {
			s.maxWR = wr
		}
		if is := s.Aggregates[i].InteractionScore; is > s.maxInter {
			s.maxInter = is
		}
	}

	for _, ev := range events {
		if ev.UserID != "" {
			s.history[ev.UserID] = append(s.history[ev.UserID], ev)
		}
	}

	return s, nil
}
