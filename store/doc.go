// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists sessions, objects, experts and ballots.

Each table gets a small collaborator type sharing one *sql.DB:

	st := store.New(conn)
	sess, err := st.Sessions.Get(ctx, id)
	objects, err := st.Objects.ListBySession(ctx, id)
	err = st.Ballots.ReplaceForExpert(ctx, id, expertID, ballot)

Queries use $n placeholders, which both lib/pq and modernc.org/sqlite bind.

# Ballot Replacement

ReplaceForExpert deletes the expert's vote rows, inserts the new ones and
sets has_voted inside one transaction. Concurrent readers observe either
the previous ballot or the new one.

# Errors

ErrNotFound, ErrConflict and ErrFull are sentinels for errors.Is. Other
errors are driver errors wrapped with context and should be treated as
storage failures.
*/
package store
