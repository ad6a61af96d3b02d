// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the quickly-rank API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Session management (admin, requires X-Admin-Key):

	POST /sessions               - Create session
	GET  /sessions/{id}/admin    - Session, objects and experts
	POST /sessions/{id}/start    - Open for voting
	POST /sessions/{id}/objects  - Enter the objects (once)
	POST /sessions/{id}/close    - Close the session

Experts (public, uses join code):

	GET  /sessions/{code}           - Session info and objects
	POST /sessions/{code}/join      - Join as an expert
	GET  /sessions/{code}/progress  - Voted / joined / expected
	GET  /sessions/{code}/pairs     - Pairwise comparison sheet (?winner=... to resume)
	POST /sessions/{code}/ballots   - Submit or replace ballot (X-Expert-Token)
	GET  /sessions/{code}/my-ballot - Resume own ballot (X-Expert-Token)
	GET  /sessions/{code}/results   - Current consensus
	GET  /sessions/{code}/events    - WebSocket change feed

# Handler Initialization

The router builds the store, metrics, event broker and consensus service
once and injects them into each handler:

	st := store.New(db)
	svc := consensus.NewService(st.Sessions, st.Objects, st.Ballots, m)
	votingHandler := handlers.NewVotingHandler(st, svc)
*/
package router
