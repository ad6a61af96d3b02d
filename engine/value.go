// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"encoding/json"
	"fmt"
)

// Object is one item being scored. Order is the 1-based position fixed when
// the session's objects were created.
type Object struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// Value is the canonical per-object payload of a ballot.
type Value interface {
	// Measure is the number Aggregate averages for this value.
	Measure() float64
	method() Method
}

type RankValue struct {
	Rank int `json:"rank"`
}

type ScoreValue struct {
	Score float64 `json:"score"`
}

type WinsValue struct {
	Wins             int `json:"wins"`
	TotalComparisons int `json:"total_comparisons"`
}

type WeightValue struct {
	Weight           float64 `json:"weight"`
	NormalizedWeight float64 `json:"normalized_weight"`
}

func (v RankValue) Measure() float64   { return float64(v.Rank) }
func (v ScoreValue) Measure() float64  { return v.Score }
func (v WinsValue) Measure() float64   { return float64(v.Wins) }
func (v WeightValue) Measure() float64 { return v.NormalizedWeight }

func (RankValue) method() Method   { return MethodRanking }
func (ScoreValue) method() Method  { return MethodDirect }
func (WinsValue) method() Method   { return MethodPairwise }
func (WeightValue) method() Method { return MethodChurchman }

// Ballot is one expert's complete set of canonical values, keyed by object ID.
type Ballot struct {
	ExpertID string           `json:"expert_id"`
	Values   map[string]Value `json:"values"`
}

// EncodeValue renders a value as its stored JSON payload.
func EncodeValue(v Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("nil ballot value")
	}
	return json.Marshal(v)
}

// DecodeValue parses a stored payload for the given method.
func DecodeValue(m Method, raw []byte) (Value, error) {
	var (
		v   Value
		err error
	)
	switch m {
	case MethodRanking:
		var rv RankValue
		err = json.Unmarshal(raw, &rv)
		v = rv
	case MethodDirect:
		var sv ScoreValue
		err = json.Unmarshal(raw, &sv)
		v = sv
	case MethodPairwise:
		var wv WinsValue
		err = json.Unmarshal(raw, &wv)
		v = wv
	case MethodChurchman:
		var wv WeightValue
		err = json.Unmarshal(raw, &wv)
		v = wv
	default:
		return nil, fmt.Errorf("unknown method %q", m)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s value: %w", m, err)
	}
	return v, nil
}
