// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, validated through their validate tags:

  - CreateSessionRequest: name, method, experts_count, objects_count
  - JoinSessionRequest: nickname
  - CreateObjectsRequest: names (in display order)
  - SubmitBallotRequest: order | scores | winners | weights

# Response Types

  - CreateSessionResponse: session_id, code, admin_key
  - JoinSessionResponse: expert_id, expert_token
  - PairsResponse: total, comparisons
  - MyBallotResponse: the caller's live ballot
  - ResultsResponse: ranked results, warnings, progress
  - ErrorResponse: error, message, object_id, constraint

# Domain Types

  - Session: method, configured counts, lifecycle status
  - Expert: nickname and has_voted flag
  - Event: change feed notification

Objects, ballots and result rows come from package engine.

# Constants

Status values:

	StatusWaiting = "waiting"
	StatusVoting  = "voting"
	StatusClosed  = "closed"

Event kinds:

	EventObjectsCreated       = "objects_created"
	EventSessionStatusChanged = "session_status_changed"
*/
package models
