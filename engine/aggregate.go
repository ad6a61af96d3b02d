// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "fmt"

// Scores maps object ID to its aggregate score.
type Scores map[string]float64

// Aggregate averages each object's metric over the ballots that reference it:
// rank for ranking, score for direct, wins for pairwise and normalized weight
// for churchman. Objects nobody voted on score 0 and yield a warning, as do
// values of the wrong type. Values for objects outside the list are ignored.
func Aggregate(m Method, objects []Object, ballots []Ballot) (Scores, []AggregationWarning, error) {
	if !m.Valid() {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}

	sums := make(map[string]float64, len(objects))
	counts := make(map[string]int, len(objects))
	for _, o := range objects {
		sums[o.ID] = 0
	}

	var warnings []AggregationWarning
	for _, b := range ballots {
		for _, o := range objects {
			v, ok := b.Values[o.ID]
			if !ok || v == nil {
				continue
			}
			if v.method() != m {
				warnings = append(warnings, AggregationWarning{
					ObjectID: o.ID,
					Message:  fmt.Sprintf("ignored %s value from expert %s", v.method(), b.ExpertID),
				})
				continue
			}
			sums[o.ID] += v.Measure()
			counts[o.ID]++
		}
	}

	scores := make(Scores, len(objects))
	for _, o := range objects {
		n := counts[o.ID]
		if n == 0 {
			scores[o.ID] = 0
			warnings = append(warnings, AggregationWarning{ObjectID: o.ID, Message: "no votes"})
			continue
		}
		scores[o.ID] = sums[o.ID] / float64(n)
	}
	return scores, warnings, nil
}
