// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"math"
	"slices"
)

// Normalize divides every weight by the total so the result sums to 1.
// Weights must be finite and nonnegative with a positive sum; otherwise a
// *NormalizationError is returned and nothing is normalized.
func Normalize(weights map[string]float64) (map[string]float64, error) {
	if len(weights) == 0 {
		return nil, &NormalizationError{Reason: "no weights"}
	}

	// Sum in key order so repeated calls round identically.
	keys := make([]string, 0, len(weights))
	for id := range weights {
		keys = append(keys, id)
	}
	slices.Sort(keys)

	largest := 0.0
	for _, id := range keys {
		w := weights[id]
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, &NormalizationError{ObjectID: id, Reason: "weight must be a finite number"}
		}
		if w < 0 {
			return nil, &NormalizationError{ObjectID: id, Reason: "weight must be nonnegative"}
		}
		largest = math.Max(largest, w)
	}
	if largest == 0 {
		return nil, &NormalizationError{Reason: "weights sum to zero"}
	}

	// Scaled weights lie in [0, 1], so their sum cannot overflow.
	sum := 0.0
	for _, id := range keys {
		sum += weights[id] / largest
	}

	normalized := make(map[string]float64, len(weights))
	for _, id := range keys {
		normalized[id] = weights[id] / largest / sum
	}
	return normalized, nil
}
