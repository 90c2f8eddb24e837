// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// TopRated ranks items by a blend of weighted rating and interaction score.
// A genre filter that matches nothing returns an EmptyResultError.
func (e *Engine) TopRated(ctx context.Context, q TopQuery) (list RankedList, err error) {
	defer observe("top", time.Now(), &err)

	snap, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	var exclude map[int]struct{}
	if q.ExcludeUserID != "" {
		exclude = ratedSet(snap, e.userHistory(ctx, snap, q.ExcludeUserID))
	}
	return e.rankTop(snap, q.Genre, e.config.clampN(q.N), exclude)
}

func (e *Engine) rankTop(snap *Snapshot, genre string, n int, exclude map[int]struct{}) (RankedList, error) {
	w := e.config.Top
	needle := strings.ToLower(strings.TrimSpace(genre))

	list := make(RankedList, 0, snap.Len())
	matched := 0
	for i := range snap.Items {
		if needle != "" && !strings.Contains(snap.genreText[i], needle) {
			continue
		}
		matched++
		if _, ok := exclude[i]; ok {
			continue
		}
		r := snap.row(i)
		r.Score = w.Quality*r.WeightedRating + w.Interaction*r.InteractionScore
		list = append(list, r)
	}
	if needle != "" && matched == 0 {
		return nil, &EmptyResultError{Query: fmt.Sprintf("genre %q", genre)}
	}

	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Score > list[b].Score
	})
	if len(list) > n {
		list = list[:n]
	}
	return list, nil
}
