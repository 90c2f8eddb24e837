// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package recommend

// AggregateInteractions summarizes events per item, indexed like items.
// Events for unknown items are ignored. Items without events get all-zero
// aggregates.
func AggregateInteractions(items []Item, events []Event, w InteractionWeights) []Aggregate {
	byID := make(map[string]int, len(items))
	for i, it := range items {
		byID[it.ID] = i
	}

	aggs := make([]Aggregate, len(items))
	for _, ev := range events {
		i, ok := byID[ev.ItemID]
		if !ok {
			continue
		}
		switch ev.Kind {
		case EventClick:
			aggs[i].Clicks++
		case EventRating:
			if ev.Rating != nil {
				aggs[i].RatingSum += *ev.Rating
				aggs[i].RatingCount++
			}
		}
	}

	for i := range aggs {
		a := &aggs[i]
		if a.RatingCount > 0 {
			a.AvgUserRating = a.RatingSum / float64(a.RatingCount)
		}
		a.InteractionScore = w.Click*float64(a.Clicks) + w.Rating*a.RatingSum
	}
	return aggs
}
