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

// UnfinishedFor returns items the user clicked but never rated, most
// clicked first. ok is false when there are none.
func (e *Engine) UnfinishedFor(ctx context.Context, userID string, n int) (list RankedList, ok bool, err error) {
	defer observe("unfinished", time.Now(), &err)

	snap, err := e.current(ctx)
	if err != nil {
		return nil, false, err
	}

	history := e.userHistory(ctx, snap, userID)
	rated := ratedSet(snap, history)
	clicks := make(map[int]int)
	for _, ev := range history {
		if ev.Kind != EventClick {
			continue
		}
		if i, found := snap.IndexOfID(ev.ItemID); found {
			clicks[i]++
		}
	}

	idxs := make([]int, 0, len(clicks))
	for i := range clicks {
		if _, skip := rated[i]; !skip {
			idxs = append(idxs, i)
		}
	}
	sort.Slice(idxs, func(a, b int) bool {
		ca, cb := clicks[idxs[a]], clicks[idxs[b]]
		if ca != cb {
			return ca > cb
		}
		return idxs[a] < idxs[b]
	})
	if n = e.config.clampN(n); len(idxs) > n {
		idxs = idxs[:n]
	}

	list = make(RankedList, 0, len(idxs))
	for _, i := range idxs {
		r := snap.row(i)
		r.UserClicks = clicks[i]
		r.Score = float64(clicks[i])
		list = append(list, r)
	}
	return list, len(list) > 0, nil
}
