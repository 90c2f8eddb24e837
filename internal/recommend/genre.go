// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"context"
	"sort"
	"strings"
	"time"
)

// genreEpsilon absorbs float drift when comparing accumulated genre weights.
const genreEpsilon = 1e-9

// FavoriteGenreOf infers the user's favorite genre from their interactions.
// ok is false when none of the user's events resolve to a catalog item with
// genres. Equal weights go to the lexicographically smallest genre.
func (e *Engine) FavoriteGenreOf(ctx context.Context, userID string) (genre string, ok bool, err error) {
	defer observe("favorite_genre", time.Now(), &err)

	snap, err := e.current(ctx)
	if err != nil {
		return "", false, err
	}
	genre, ok = e.favoriteGenre(snap, e.userHistory(ctx, snap, userID))
	return genre, ok, nil
}

// RecommendByFavoriteGenre ranks unrated items of the user's favorite genre.
func (e *Engine) RecommendByFavoriteGenre(ctx context.Context, userID string, n int) (rec GenreRecommendation, err error) {
	defer observe("favorite_genre_items", time.Now(), &err)

	snap, err := e.current(ctx)
	if err != nil {
		return GenreRecommendation{}, err
	}

	history := e.userHistory(ctx, snap, userID)
	genre, ok := e.favoriteGenre(snap, history)
	if !ok {
		return GenreRecommendation{Items: RankedList{}}, nil
	}

	w := e.config.Genre
	rated := ratedSet(snap, history)
	list := make(RankedList, 0)
	for i, it := range snap.Items {
		if _, skip := rated[i]; skip || !hasGenre(it, genre) {
			continue
		}
		r := snap.row(i)
		r.Score = w.Quality*r.WeightedRating + w.Interaction*r.InteractionScore
		list = append(list, r)
	}
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Score > list[b].Score
	})
	if n = e.config.clampN(n); len(list) > n {
		list = list[:n]
	}
	return GenreRecommendation{Genre: genre, HasGenre: true, Items: list}, nil
}

func (e *Engine) favoriteGenre(snap *Snapshot, history []Event) (string, bool) {
	w := e.config.Genre
	totals := make(map[string]float64)
	for _, ev := range history {
		i, ok := snap.IndexOfID(ev.ItemID)
		if !ok {
			continue
		}
		var weight float64
		switch ev.Kind {
		case EventClick:
			weight = w.ClickWeight
		case EventRating:
			r := w.MissingRating
			if ev.Rating != nil {
				r = *ev.Rating
			}
			weight = r / 5
		default:
			continue
		}
		for _, g := range snap.Items[i].Genres {
			if g = strings.TrimSpace(g); g != "" {
				totals[g] += weight
			}
		}
	}
	if len(totals) == 0 {
		return "", false
	}

	names := make([]string, 0, len(totals))
	for g := range totals {
		names = append(names, g)
	}
	sort.Strings(names)

	best := names[0]
	for _, g := range names[1:] {
		if totals[g] > totals[best]+genreEpsilon {
			best = g
		}
	}
	return best, true
}

func hasGenre(it Item, genre string) bool {
	for _, g := range it.Genres {
		if strings.EqualFold(strings.TrimSpace(g), genre) {
			return true
		}
	}
	return false
}
