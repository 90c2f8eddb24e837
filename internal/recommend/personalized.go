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

// likedItem is a seed of personalized recommendations.
type likedItem struct {
	idx    int
	rating float64
	at     time.Time
}

// PersonalizedFor recommends items similar to what the user rated highly.
// Users without qualifying ratings get TopRated excluding their rated items.
// The only error is ErrDataUnavailable.
func (e *Engine) PersonalizedFor(ctx context.Context, userID string, n int) (list RankedList, err error) {
	defer observe("personalized", time.Now(), &err)

	snap, err := e.current(ctx)
	if err != nil {
		return nil, err
	}
	n = e.config.clampN(n)

	history := e.userHistory(ctx, snap, userID)
	rated := ratedSet(snap, history)
	liked := e.likedItems(snap, history)
	if len(liked) == 0 {
		e.logger.Debug().Str("user_id", userID).Msg("No liked items, falling back to top rated")
		return e.rankTop(snap, "", n, rated)
	}
	return e.rankPersonalized(snap, liked, rated, n), nil
}

// likedItems returns the user's best ratings at or above the threshold,
// resolved against snap, one entry per item, highest rating first.
func (e *Engine) likedItems(snap *Snapshot, history []Event) []likedItem {
	cfg := e.config.Personal
	best := make(map[int]likedItem)
	for _, ev := range history {
		if ev.Kind != EventRating || ev.Rating == nil || *ev.Rating < cfg.LikedThreshold {
			continue
		}
		i, ok := snap.IndexOfID(ev.ItemID)
		if !ok {
			continue
		}
		cur, seen := best[i]
		if !seen || *ev.Rating > cur.rating || (*ev.Rating == cur.rating && ev.Timestamp.After(cur.at)) {
			best[i] = likedItem{idx: i, rating: *ev.Rating, at: ev.Timestamp}
		}
	}

	liked := make([]likedItem, 0, len(best))
	for _, l := range best {
		liked = append(liked, l)
	}
	sort.Slice(liked, func(a, b int) bool {
		if liked[a].rating != liked[b].rating {
			return liked[a].rating > liked[b].rating
		}
		if !liked[a].at.Equal(liked[b].at) {
			return liked[a].at.After(liked[b].at)
		}
		return liked[a].idx < liked[b].idx
	})
	if len(liked) > cfg.LikedLimit {
		liked = liked[:cfg.LikedLimit]
	}
	return liked
}

func (e *Engine) rankPersonalized(snap *Snapshot, liked []likedItem, rated map[int]struct{}, n int) RankedList {
	cfg := e.config.Personal

	type candidate struct {
		idx       int
		simSum    float64
		ratingSum float64
		count     int
	}
	var (
		order []*candidate
		byIdx = make(map[int]*candidate)
	)
	// Every liked item contributes to every candidate, so each average
	// covers all of them.
	for _, l := range liked {
		row := snap.Similarity.Row(l.idx)
		for _, j := range nearest(snap, l.idx, true, rated, snap.Len()) {
			c, ok := byIdx[j]
			if !ok {
				c = &candidate{idx: j}
				byIdx[j] = c
				order = append(order, c)
			}
			c.simSum += row[j]
			c.ratingSum += l.rating
			c.count++
		}
	}

	var maxSim float64
	for _, c := range order {
		if s := c.simSum / float64(c.count); s > maxSim {
			maxSim = s
		}
	}

	list := make(RankedList, 0, len(order))
	for _, c := range order {
		r := snap.row(c.idx)
		r.Similarity = c.simSum / float64(c.count)
		r.SourceRating = c.ratingSum / float64(c.count)
		r.Score = cfg.Similarity*normalize(r.Similarity, maxSim) +
			cfg.Rating*snap.ratingNorm(c.idx) +
			cfg.Interaction*snap.interactionNorm(c.idx)
		list = append(list, r)
	}

	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Score > list[b].Score
	})
	if len(list) > n {
		list = list[:n]
	}
	return list
}
