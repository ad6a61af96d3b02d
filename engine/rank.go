// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "sort"

// ResultItem is one row of a ranked result.
type ResultItem struct {
	Object Object  `json:"object"`
	Score  float64 `json:"score"`
	Rank   int     `json:"rank"` // 1-indexed
}

// Rank orders objects by aggregate score and assigns dense ranks by position.
// Ranking sessions sort ascending, all other methods descending. Equal scores
// fall back to object order, then ID, so the output never depends on map
// iteration. Tied objects still receive distinct consecutive ranks.
func Rank(m Method, objects []Object, scores Scores) []ResultItem {
	items := make([]ResultItem, len(objects))
	for i, o := range objects {
		items[i] = ResultItem{Object: o, Score: scores[o.ID]}
	}

	lowerFirst := m.LowerIsBetter()
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]

		if a.Score != b.Score {
			if lowerFirst {
				return a.Score < b.Score
			}
			return a.Score > b.Score
		}

		if a.Object.Order != b.Object.Order {
			return a.Object.Order < b.Object.Order
		}

		return a.Object.ID < b.Object.ID
	})

	for i := range items {
		items[i].Rank = i + 1
	}
	return items
}

// Results aggregates ballots and ranks the outcome in one call.
func Results(m Method, objects []Object, ballots []Ballot) ([]ResultItem, []AggregationWarning, error) {
	scores, warnings, err := Aggregate(m, objects, ballots)
	if err != nil {
		return nil, nil, err
	}
	return Rank(m, objects, scores), warnings, nil
}
