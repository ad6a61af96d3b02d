// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "fmt"

// Move returns a copy of items with the element at from relocated to to,
// shifting the elements in between. The input slice is not modified.
func Move[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) {
		return nil, fmt.Errorf("move: source index %d out of range [0,%d)", from, len(items))
	}
	if to < 0 || to >= len(items) {
		return nil, fmt.Errorf("move: target index %d out of range [0,%d)", to, len(items))
	}

	out := make([]T, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i == from {
			continue
		}
		out = append(out, it)
	}
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}
