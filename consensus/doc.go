// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package consensus connects the pure engine to session, object and ballot
storage.

	svc := consensus.NewService(st.Sessions, st.Objects, st.Ballots, m)
	ballot, err := svc.Submit(ctx, sessionID, expertID, input)
	outcome, err := svc.Results(ctx, sessionID)

Submit rejects input outside the voting phase, validates it with
engine.Capture and only then asks the BallotStore to replace the expert's
ballot. Results reads session, objects and ballots concurrently and ranks
whatever is there.
*/
package consensus
