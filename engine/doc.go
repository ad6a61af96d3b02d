// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine captures expert ballots and reduces them to a consensus ranking.

Everything in this package is pure: no I/O, no locks, no retained state.
Callers hand in the frozen object order and whatever ballots currently
exist and get back values they may store or display.

# Methods

Four elicitation methods are supported:

	MethodRanking   = "ranking"   // total order of objects, 1 = most important
	MethodDirect    = "direct"    // score per object in [0, 10]
	MethodPairwise  = "pairwise"  // winner of every unordered pair
	MethodChurchman = "churchman" // nonnegative weight per object, normalized

# Capture

Capture turns raw input into a canonical Ballot or fails with a
*ValidationError naming the offending object:

	ballot, err := engine.Capture(engine.MethodDirect, objects, expertID, engine.Input{
		Scores: map[string]float64{"a": 8, "b": 5, "c": 2},
	})

# Pairwise Comparisons

Pairs enumerates (1,2), (1,3), ..., (2,3), ... in object order. The sequence
is deterministic, so Resume can lay previously chosen winners back onto the
same positions when an expert returns to an unfinished ballot.

# Aggregation and Ranking

	scores, warnings, err := engine.Aggregate(method, objects, ballots)
	items := engine.Rank(method, objects, scores)

Aggregate averages the method's metric per object. Rank sorts ascending for
ranking (lower mean rank wins) and descending otherwise, breaking ties by
object order, and assigns dense ranks 1..N by position. Tied scores still
get distinct ranks.
*/
package engine
