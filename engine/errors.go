// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrNoObjects is returned when a session has no objects to vote on yet.
	ErrNoObjects = errors.New("session has no objects")

	ErrUnknownMethod = errors.New("unknown method")
)

// ValidationError reports an incomplete or out-of-range ballot input.
// ObjectID is empty when the problem concerns the ballot as a whole.
type ValidationError struct {
	ObjectID   string
	Constraint string
}

func (e *ValidationError) Error() string {
	if e.ObjectID == "" {
		return "invalid ballot: " + e.Constraint
	}
	return fmt.Sprintf("invalid ballot: object %s: %s", e.ObjectID, e.Constraint)
}

// NormalizationError reports a weight vector that cannot be normalized.
type NormalizationError struct {
	ObjectID string
	Reason   string
}

func (e *NormalizationError) Error() string {
	if e.ObjectID == "" {
		return "cannot normalize weights: " + e.Reason
	}
	return fmt.Sprintf("cannot normalize weights: object %s: %s", e.ObjectID, e.Reason)
}

// AggregationWarning is a non-fatal note attached to an aggregation result.
type AggregationWarning struct {
	ObjectID string `json:"object_id"`
	Message  string `json:"message"`
}

func (w AggregationWarning) String() string {
	return w.ObjectID + ": " + w.Message
}
