// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abc() []Object {
	return []Object{
		{ID: "a", Name: "A", Order: 1},
		{ID: "b", Name: "B", Order: 2},
		{ID: "c", Name: "C", Order: 3},
	}
}

func TestPairs(t *testing.T) {
	pairs := Pairs(abc())
	require.Len(t, pairs, 3)

	got := make([][2]string, len(pairs))
	for i, p := range pairs {
		got[i] = [2]string{p.First.ID, p.Second.ID}
	}
	assert.Equal(t, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "c"}}, got)

	assert.Equal(t, pairs, Pairs(abc()), "pairs must be deterministic")
}

func TestPairs_Count(t *testing.T) {
	for n := 0; n <= 8; n++ {
		objects := make([]Object, n)
		for i := range objects {
			objects[i] = Object{ID: string(rune('a' + i)), Order: i + 1}
		}
		assert.Len(t, Pairs(objects), PairCount(n), "n=%d", n)
	}
	assert.Equal(t, 0, PairCount(1))
	assert.Equal(t, 10, PairCount(5))
}

func TestResume_KeepsPriorAnswers(t *testing.T) {
	sheet := Resume(abc(), []string{"a", "c"})
	require.Len(t, sheet, 3)
	assert.Equal(t, "a", sheet[0].Winner)
	assert.Equal(t, "c", sheet[1].Winner)
	assert.Equal(t, "", sheet[2].Winner)
	assert.False(t, Complete(sheet))

	sheet[2].Winner = "b"
	assert.True(t, Complete(sheet))
	assert.False(t, Complete(Comparisons(abc())))
}

func TestCaptureRanking(t *testing.T) {
	tests := []struct {
		name       string
		order      []string
		wantObject string
	}{
		{name: "valid", order: []string{"b", "a", "c"}},
		{name: "duplicate", order: []string{"a", "a", "c"}, wantObject: "a"},
		{name: "omitted", order: []string{"a", "b"}, wantObject: "c"},
		{name: "unknown", order: []string{"a", "b", "z"}, wantObject: "z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Capture(MethodRanking, abc(), "e1", Input{Order: tt.order})
			if tt.wantObject != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantObject, verr.ObjectID)
				assert.Empty(t, b.Values)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, RankValue{Rank: 1}, b.Values["b"])
			assert.Equal(t, RankValue{Rank: 2}, b.Values["a"])
			assert.Equal(t, RankValue{Rank: 3}, b.Values["c"])
		})
	}
}

func TestCaptureRanking_IsPermutation(t *testing.T) {
	b, err := Capture(MethodRanking, abc(), "e1", Input{Order: []string{"c", "a", "b"}})
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, v := range b.Values {
		seen[v.(RankValue).Rank] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
}

func TestCaptureDirect(t *testing.T) {
	tests := []struct {
		name       string
		scores     map[string]float64
		wantObject string
	}{
		{name: "valid bounds", scores: map[string]float64{"a": 0, "b": 10, "c": 4.5}},
		{name: "missing", scores: map[string]float64{"a": 1, "b": 2}, wantObject: "c"},
		{name: "above range", scores: map[string]float64{"a": 1, "b": 10.1, "c": 2}, wantObject: "b"},
		{name: "below range", scores: map[string]float64{"a": -1, "b": 2, "c": 2}, wantObject: "a"},
		{name: "nan", scores: map[string]float64{"a": 1, "b": 2, "c": math.NaN()}, wantObject: "c"},
		{name: "unknown", scores: map[string]float64{"a": 1, "b": 2, "c": 3, "x": 4}, wantObject: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Capture(MethodDirect, abc(), "e1", Input{Scores: tt.scores})
			if tt.wantObject != "" {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantObject, verr.ObjectID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ScoreValue{Score: 10}, b.Values["b"])
		})
	}
}

func TestCapturePairwise(t *testing.T) {
	b, err := Capture(MethodPairwise, abc(), "e1", Input{Winners: []string{"a", "a", "b"}})
	require.NoError(t, err)

	assert.Equal(t, WinsValue{Wins: 2, TotalComparisons: 3}, b.Values["a"])
	assert.Equal(t, WinsValue{Wins: 1, TotalComparisons: 3}, b.Values["b"])
	assert.Equal(t, WinsValue{Wins: 0, TotalComparisons: 3}, b.Values["c"])

	total := 0
	for _, v := range b.Values {
		total += v.(WinsValue).Wins
	}
	assert.Equal(t, 3, total, "each comparison contributes exactly one win")
}

func TestCapturePairwise_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		winners []string
	}{
		{name: "unset comparison", winners: []string{"a", "", "b"}},
		{name: "too few", winners: []string{"a", "a"}},
		{name: "too many", winners: []string{"a", "a", "b", "c"}},
		{name: "winner outside pair", winners: []string{"c", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Capture(MethodPairwise, abc(), "e1", Input{Winners: tt.winners})
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestCaptureChurchman(t *testing.T) {
	b, err := Capture(MethodChurchman, abc(), "e1", Input{Weights: map[string]float64{"a": 3, "b": 1, "c": 1}})
	require.NoError(t, err)

	assert.InDelta(t, 0.6, b.Values["a"].(WeightValue).NormalizedWeight, 1e-9)
	assert.InDelta(t, 0.2, b.Values["b"].(WeightValue).NormalizedWeight, 1e-9)
	assert.InDelta(t, 0.2, b.Values["c"].(WeightValue).NormalizedWeight, 1e-9)
	assert.Equal(t, 3.0, b.Values["a"].(WeightValue).Weight)

	sum := 0.0
	for _, v := range b.Values {
		sum += v.Measure()
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCaptureChurchman_Invalid(t *testing.T) {
	_, err := Capture(MethodChurchman, abc(), "e1", Input{Weights: map[string]float64{"a": 0, "b": 0, "c": 0}})
	var nerr *NormalizationError
	assert.ErrorAs(t, err, &nerr)

	_, err = Capture(MethodChurchman, abc(), "e1", Input{Weights: map[string]float64{"a": 1, "b": -1, "c": 1}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "b", verr.ObjectID)

	_, err = Capture(MethodChurchman, abc(), "e1", Input{Weights: map[string]float64{"a": 1, "b": 1}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "c", verr.ObjectID)
}

func TestCapture_NoObjectsOrUnknownMethod(t *testing.T) {
	_, err := Capture(MethodDirect, nil, "e1", Input{})
	assert.ErrorIs(t, err, ErrNoObjects)

	_, err = Capture(Method("borda"), abc(), "e1", Input{})
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestNormalize(t *testing.T) {
	out, err := Normalize(map[string]float64{"a": 3, "b": 1, "c": 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, out["a"], 1e-9)
	assert.InDelta(t, 0.2, out["b"], 1e-9)

	again, err := Normalize(out)
	require.NoError(t, err)
	for id, w := range out {
		assert.InDelta(t, w, again[id], 1e-9, "normalize must be idempotent for %s", id)
	}
}

func TestNormalize_LargeWeights(t *testing.T) {
	out, err := Normalize(map[string]float64{"a": math.MaxFloat64, "b": math.MaxFloat64, "c": 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out["a"], 1e-9)
	assert.InDelta(t, 0.5, out["b"], 1e-9)
	assert.Equal(t, 0.0, out["c"])

	out, err = Normalize(map[string]float64{"a": 1e308, "b": 1.5e308})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, out["a"]+out["b"], 1e-9)

	tiny, err := Normalize(map[string]float64{"a": 5e-324, "b": 5e-324})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, tiny["a"], 1e-9)
}

func TestNormalize_Degenerate(t *testing.T) {
	cases := map[string]map[string]float64{
		"empty":    {},
		"zero sum": {"a": 0, "b": 0},
		"negative": {"a": 2, "b": -1},
		"nan":      {"a": math.NaN()},
		"inf":      {"a": math.Inf(1)},
	}
	for name, weights := range cases {
		t.Run(name, func(t *testing.T) {
			out, err := Normalize(weights)
			var nerr *NormalizationError
			assert.True(t, errors.As(err, &nerr))
			assert.Nil(t, out)
		})
	}
}

func TestDirectScenario(t *testing.T) {
	objects := abc()
	b1, err := Capture(MethodDirect, objects, "e1", Input{Scores: map[string]float64{"a": 8, "b": 5, "c": 2}})
	require.NoError(t, err)
	b2, err := Capture(MethodDirect, objects, "e2", Input{Scores: map[string]float64{"a": 6, "b": 7, "c": 3}})
	require.NoError(t, err)

	scores, warnings, err := Aggregate(MethodDirect, objects, []Ballot{b1, b2})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.InDelta(t, 7.0, scores["a"], 1e-9)
	assert.InDelta(t, 6.0, scores["b"], 1e-9)
	assert.InDelta(t, 2.5, scores["c"], 1e-9)

	items := Rank(MethodDirect, objects, scores)
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].Object.ID)
	assert.Equal(t, "b", items[1].Object.ID)
	assert.Equal(t, "c", items[2].Object.ID)
	for i, it := range items {
		assert.Equal(t, i+1, it.Rank)
	}
}

func TestAggregate_Ranking(t *testing.T) {
	objects := abc()
	b1, _ := Capture(MethodRanking, objects, "e1", Input{Order: []string{"a", "b", "c"}})
	b2, _ := Capture(MethodRanking, objects, "e2", Input{Order: []string{"b", "a", "c"}})
	b3, _ := Capture(MethodRanking, objects, "e3", Input{Order: []string{"b", "c", "a"}})

	items, _, err := Results(MethodRanking, objects, []Ballot{b1, b2, b3})
	require.NoError(t, err)

	// b: (2+1+1)/3, a: (1+2+3)/3, c: (3+3+2)/3
	assert.Equal(t, "b", items[0].Object.ID)
	assert.InDelta(t, 4.0/3, items[0].Score, 1e-9)
	assert.Equal(t, "a", items[1].Object.ID)
	assert.Equal(t, "c", items[2].Object.ID)
}

func TestAggregate_PairwiseAndChurchman(t *testing.T) {
	objects := abc()
	p1, _ := Capture(MethodPairwise, objects, "e1", Input{Winners: []string{"a", "a", "b"}})
	p2, _ := Capture(MethodPairwise, objects, "e2", Input{Winners: []string{"b", "c", "b"}})
	scores, _, err := Aggregate(MethodPairwise, objects, []Ballot{p1, p2})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, scores["a"], 1e-9)
	assert.InDelta(t, 1.5, scores["b"], 1e-9)
	assert.InDelta(t, 0.5, scores["c"], 1e-9)

	c1, _ := Capture(MethodChurchman, objects, "e1", Input{Weights: map[string]float64{"a": 3, "b": 1, "c": 1}})
	c2, _ := Capture(MethodChurchman, objects, "e2", Input{Weights: map[string]float64{"a": 1, "b": 1, "c": 2}})
	scores, _, err = Aggregate(MethodChurchman, objects, []Ballot{c1, c2})
	require.NoError(t, err)
	assert.InDelta(t, 0.425, scores["a"], 1e-9)
	assert.InDelta(t, 0.225, scores["b"], 1e-9)
	assert.InDelta(t, 0.35, scores["c"], 1e-9)
}

func TestAggregate_NoVotesDefaultsToZero(t *testing.T) {
	objects := abc()
	partial := Ballot{ExpertID: "e1", Values: map[string]Value{"a": ScoreValue{Score: 4}, "b": ScoreValue{Score: 6}}}

	scores, warnings, err := Aggregate(MethodDirect, objects, []Ballot{partial})
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores["c"])
	require.Len(t, warnings, 1)
	assert.Equal(t, "c", warnings[0].ObjectID)

	scores, warnings, err = Aggregate(MethodDirect, objects, nil)
	require.NoError(t, err)
	assert.Len(t, scores, 3)
	assert.Len(t, warnings, 3)
}

func TestAggregate_SkipsMismatchedValues(t *testing.T) {
	objects := abc()[:2]
	b := Ballot{ExpertID: "e1", Values: map[string]Value{"a": RankValue{Rank: 1}, "b": ScoreValue{Score: 5}}}

	scores, warnings, err := Aggregate(MethodDirect, objects, []Ballot{b})
	require.NoError(t, err)
	assert.Equal(t, 5.0, scores["b"])
	assert.Equal(t, 0.0, scores["a"])
	assert.Len(t, warnings, 2) // ignored value + no votes

	_, _, err = Aggregate(Method("nope"), objects, nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestRank_TiesAndDeterminism(t *testing.T) {
	objects := []Object{
		{ID: "z", Order: 1},
		{ID: "y", Order: 2},
		{ID: "x", Order: 3},
	}
	scores := Scores{"z": 5, "y": 5, "x": 5}

	first := Rank(MethodDirect, objects, scores)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Rank(MethodDirect, objects, scores))
	}
	assert.Equal(t, "z", first[0].Object.ID)
	assert.Equal(t, "y", first[1].Object.ID)
	assert.Equal(t, "x", first[2].Object.ID)
	assert.Equal(t, []int{1, 2, 3}, []int{first[0].Rank, first[1].Rank, first[2].Rank})

	// Input order does not matter, only the order index.
	shuffled := []Object{objects[2], objects[0], objects[1]}
	assert.Equal(t, first, Rank(MethodDirect, shuffled, scores))

	asc := Rank(MethodRanking, objects, Scores{"z": 2.5, "y": 1.5, "x": 2.5})
	assert.Equal(t, []string{"y", "z", "x"}, []string{asc[0].Object.ID, asc[1].Object.ID, asc[2].Object.ID})
}

func TestMove(t *testing.T) {
	in := []string{"a", "b", "c", "d"}

	out, err := Move(in, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, out)

	out, err = Move(in, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "b", "c"}, out)

	out, err = Move(in, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	assert.Equal(t, []string{"a", "b", "c", "d"}, in, "input must not be modified")

	_, err = Move(in, 4, 0)
	assert.Error(t, err)
	_, err = Move(in, 0, -1)
	assert.Error(t, err)
}

func TestEncodeDecodeValue(t *testing.T) {
	raw, err := EncodeValue(WinsValue{Wins: 2, TotalComparisons: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"wins":2,"total_comparisons":3}`, string(raw))

	v, err := DecodeValue(MethodChurchman, []byte(`{"weight":3,"normalized_weight":0.6}`))
	require.NoError(t, err)
	assert.Equal(t, WeightValue{Weight: 3, NormalizedWeight: 0.6}, v)

	_, err = DecodeValue(MethodDirect, []byte(`not json`))
	assert.Error(t, err)
	_, err = DecodeValue(Method("x"), []byte(`{}`))
	assert.Error(t, err)
}

func TestParseMethod(t *testing.T) {
	for _, m := range Methods {
		got, err := ParseMethod(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
		assert.NotEmpty(t, m.Label())
	}
	_, err := ParseMethod("borda")
	assert.ErrorIs(t, err, ErrUnknownMethod)
	assert.Contains(t, err.Error(), "churchman")
	assert.True(t, MethodRanking.LowerIsBetter())
	assert.False(t, MethodDirect.LowerIsBetter())
}
