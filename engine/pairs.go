// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

// Pair is one unordered pair of objects; First precedes Second in object order.
type Pair struct {
	First  Object `json:"first"`
	Second Object `json:"second"`
}

// Comparison is a pair plus the chosen winner's object ID ("" when unset).
type Comparison struct {
	Pair
	Winner string `json:"winner,omitempty"`
}

// PairCount returns n*(n-1)/2.
func PairCount(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Pairs enumerates all unordered pairs of objects in the given order:
// (o1,o2), (o1,o3), ..., (o2,o3), ... The result depends only on the input
// sequence.
func Pairs(objects []Object) []Pair {
	pairs := make([]Pair, 0, PairCount(len(objects)))
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			pairs = append(pairs, Pair{First: objects[i], Second: objects[j]})
		}
	}
	return pairs
}

// Comparisons returns a fresh comparison sheet with every winner unset.
func Comparisons(objects []Object) []Comparison {
	return Resume(objects, nil)
}

// Resume rebuilds the comparison sheet and lays prior winners back onto it by
// position. Extra answers are dropped; missing ones stay unset.
func Resume(objects []Object, winners []string) []Comparison {
	pairs := Pairs(objects)
	sheet := make([]Comparison, len(pairs))
	for i, p := range pairs {
		sheet[i] = Comparison{Pair: p}
		if i < len(winners) {
			sheet[i].Winner = winners[i]
		}
	}
	return sheet
}

// Complete reports whether every comparison has a winner.
func Complete(sheet []Comparison) bool {
	for _, c := range sheet {
		if c.Winner == "" {
			return false
		}
	}
	return true
}
