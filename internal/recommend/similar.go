// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

import (
	"context"
	"sort"
	"time"
)

// SimilarTo returns the n items most similar to the item titled title.
// When several items share the title the last one in catalog order is used;
// SimilarToID addresses a specific item.
func (e *Engine) SimilarTo(ctx context.Context, title string, n int, opts SimilarOptions) (list RankedList, err error) {
	defer observe("similar", time.Now(), &err)

	snap, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	idx, ok := snap.IndexOfTitle(title)
	if !ok {
		return nil, &NotFoundError{Kind: "title", Key: title}
	}
	return e.rankSimilar(snap, idx, e.config.clampN(n), opts), nil
}

// SimilarToID is SimilarTo keyed by catalog id.
func (e *Engine) SimilarToID(ctx context.Context, id string, n int, opts SimilarOptions) (list RankedList, err error) {
	defer observe("similar", time.Now(), &err)

	snap, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	idx, ok := snap.IndexOfID(id)
	if !ok {
		return nil, &NotFoundError{Kind: "id", Key: id}
	}
	return e.rankSimilar(snap, idx, e.config.clampN(n), opts), nil
}

// nearest returns item indices ordered by descending similarity to idx,
// ties by index, skipping idx when excludeSelf is set and any index in skip.
// At most limit indices are returned.
func nearest(snap *Snapshot, idx int, excludeSelf bool, skip map[int]struct{}, limit int) []int {
	row := snap.Similarity.Row(idx)
	order := make([]int, 0, len(row))
	for j := range row {
		if excludeSelf && j == idx {
			continue
		}
		if _, ok := skip[j]; ok {
			continue
		}
		order = append(order, j)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})
	if limit < len(order) {
		order = order[:limit]
	}
	return order
}

func (e *Engine) rankSimilar(snap *Snapshot, idx, n int, opts SimilarOptions) RankedList {
	w := e.config.Similar
	row := snap.Similarity.Row(idx)
	pool := nearest(snap, idx, opts.SelfExclude, nil, n*w.PoolFactor)

	list := make(RankedList, 0, len(pool))
	for _, j := range pool {
		r := snap.row(j)
		r.Similarity = row[j]
		if opts.UseInteractions {
			r.Score = w.Cosine*row[j] + w.Rating*snap.ratingNorm(j) + w.Interaction*snap.interactionNorm(j)
		} else {
			r.Score = row[j]
		}
		list = append(list, r)
	}

	// Stable: equal scores and similarities keep pool order.
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].Score != list[b].Score {
			return list[a].Score > list[b].Score
		}
		return list[a].Similarity > list[b].Similarity
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
