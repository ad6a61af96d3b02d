// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the quickly-rank API.

# Handler Types

  - SessionHandler: session lifecycle and object entry (admin)
  - ExpertHandler: joining and progress
  - VotingHandler: comparison sheets, ballot submission and resume
  - ResultsHandler: on-demand consensus results
  - EventsHandler: WebSocket change feed

Handlers share a *store.Store; voting and results go through a
*consensus.Service so ballot validation happens in one place.

# Session Lifecycle

Sessions progress through three states: waiting → voting → closed

	POST /sessions              → CreateSession (returns code and admin_key)
	POST /sessions/{id}/start   → StartSession (needs two experts)
	POST /sessions/{id}/objects → CreateObjects (voting only, once)
	POST /sessions/{id}/close   → CloseSession

Admin operations require the X-Admin-Key header.

# Voting Flow

Experts use the join code:

	POST /sessions/{code}/join      → JoinSession (returns expert_token)
	GET  /sessions/{code}/pairs     → GetPairs (pairwise sessions, ?winner= to resume)
	POST /sessions/{code}/ballots   → SubmitBallot (create or replace)
	GET  /sessions/{code}/my-ballot → GetMyBallot

Expert operations require the X-Expert-Token header.

# Errors

Invalid ballots return 400 with object_id and constraint. Lifecycle
violations return 409. Storage failures are logged and returned as 500.
*/
package handlers
