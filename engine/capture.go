// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"math"
	"sort"
)

// Score bounds for the direct method.
const (
	MinScore = 0.0
	MaxScore = 10.0
)

// Input is an expert's raw submission. Only the field matching the session's
// method is read.
type Input struct {
	// Order lists object IDs from most to least important (ranking).
	Order []string `json:"order,omitempty"`
	// Scores maps object ID to a score in [0, 10] (direct).
	Scores map[string]float64 `json:"scores,omitempty"`
	// Winners holds the winning object ID for each pair, in Pairs order (pairwise).
	Winners []string `json:"winners,omitempty"`
	// Weights maps object ID to a nonnegative raw weight (churchman).
	Weights map[string]float64 `json:"weights,omitempty"`
}

// Capture validates raw input for the given method and encodes it as a
// canonical ballot. No ballot is returned unless every object has a valid value.
func Capture(m Method, objects []Object, expertID string, in Input) (Ballot, error) {
	if len(objects) == 0 {
		return Ballot{}, ErrNoObjects
	}

	var (
		values map[string]Value
		err    error
	)
	switch m {
	case MethodRanking:
		values, err = CaptureRanking(objects, in.Order)
	case MethodDirect:
		values, err = CaptureDirect(objects, in.Scores)
	case MethodPairwise:
		values, err = CapturePairwise(objects, in.Winners)
	case MethodChurchman:
		values, err = CaptureChurchman(objects, in.Weights)
	default:
		return Ballot{}, fmt.Errorf("%w: %q", ErrUnknownMethod, m)
	}
	if err != nil {
		return Ballot{}, err
	}

	return Ballot{ExpertID: expertID, Values: values}, nil
}

// CaptureRanking turns a permutation of object IDs into {rank} values.
func CaptureRanking(objects []Object, order []string) (map[string]Value, error) {
	known := objectSet(objects)
	seen := make(map[string]bool, len(order))
	values := make(map[string]Value, len(objects))

	for i, id := range order {
		if !known[id] {
			return nil, &ValidationError{ObjectID: id, Constraint: "unknown object"}
		}
		if seen[id] {
			return nil, &ValidationError{ObjectID: id, Constraint: "ranked more than once"}
		}
		seen[id] = true
		values[id] = RankValue{Rank: i + 1}
	}

	for _, o := range objects {
		if !seen[o.ID] {
			return nil, &ValidationError{ObjectID: o.ID, Constraint: "missing from ranking"}
		}
	}
	return values, nil
}

// CaptureDirect checks that every object has a score in [MinScore, MaxScore].
func CaptureDirect(objects []Object, scores map[string]float64) (map[string]Value, error) {
	if err := rejectUnknown(objects, scores); err != nil {
		return nil, err
	}

	values := make(map[string]Value, len(objects))
	for _, o := range objects {
		s, ok := scores[o.ID]
		if !ok {
			return nil, &ValidationError{ObjectID: o.ID, Constraint: "missing score"}
		}
		if math.IsNaN(s) || s < MinScore || s > MaxScore {
			return nil, &ValidationError{
				ObjectID:   o.ID,
				Constraint: fmt.Sprintf("score must be between %g and %g", MinScore, MaxScore),
			}
		}
		values[o.ID] = ScoreValue{Score: s}
	}
	return values, nil
}

// CapturePairwise counts wins per object from a winner for every pair in
// Pairs order. All comparisons must be decided.
func CapturePairwise(objects []Object, winners []string) (map[string]Value, error) {
	total := PairCount(len(objects))
	if len(winners) > total {
		return nil, &ValidationError{
			Constraint: fmt.Sprintf("expected %d comparisons, got %d", total, len(winners)),
		}
	}

	sheet := Resume(objects, winners)
	wins := make(map[string]int, len(objects))
	for i, c := range sheet {
		switch c.Winner {
		case "":
			return nil, &ValidationError{
				ObjectID:   c.First.ID,
				Constraint: fmt.Sprintf("comparison %d against %s has no winner", i+1, c.Second.ID),
			}
		case c.First.ID, c.Second.ID:
			wins[c.Winner]++
		default:
			return nil, &ValidationError{
				ObjectID:   c.Winner,
				Constraint: fmt.Sprintf("not part of comparison %d (%s vs %s)", i+1, c.First.ID, c.Second.ID),
			}
		}
	}

	values := make(map[string]Value, len(objects))
	for _, o := range objects {
		values[o.ID] = WinsValue{Wins: wins[o.ID], TotalComparisons: total}
	}
	return values, nil
}

// CaptureChurchman normalizes one nonnegative weight per object.
func CaptureChurchman(objects []Object, weights map[string]float64) (map[string]Value, error) {
	if err := rejectUnknown(objects, weights); err != nil {
		return nil, err
	}
	for _, o := range objects {
		w, ok := weights[o.ID]
		if !ok {
			return nil, &ValidationError{ObjectID: o.ID, Constraint: "missing weight"}
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, &ValidationError{ObjectID: o.ID, Constraint: "weight must be a nonnegative number"}
		}
	}

	normalized, err := Normalize(weights)
	if err != nil {
		return nil, err
	}

	values := make(map[string]Value, len(objects))
	for _, o := range objects {
		values[o.ID] = WeightValue{Weight: weights[o.ID], NormalizedWeight: normalized[o.ID]}
	}
	return values, nil
}

func objectSet(objects []Object) map[string]bool {
	set := make(map[string]bool, len(objects))
	for _, o := range objects {
		set[o.ID] = true
	}
	return set
}

// rejectUnknown fails on the first (sorted) key that is not a session object.
func rejectUnknown(objects []Object, values map[string]float64) error {
	known := objectSet(objects)
	var unknown []string
	for id := range values {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return &ValidationError{ObjectID: unknown[0], Constraint: "unknown object"}
}
