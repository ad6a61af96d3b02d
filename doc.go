// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the quickly-rank API server.

quickly-rank collects ballots from a panel of experts and aggregates them
into a consensus ranking. A session uses one of four methods:

  - ranking: each expert orders every object, lower mean rank wins
  - direct: each expert scores every object on a common scale
  - pairwise: each expert picks a winner for every pair of objects
  - churchman: each expert assigns weights, normalized to sum to one

# Starting the Server

The server reads environment variables (optionally from a .env file) or
CLI flags:

	DATABASE_URL=quickly-rank.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

Flags override environment variables.

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - SESSION_CODE_SALT (-code-salt): Secret for join code generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)

# Architecture

  - engine: ballot capture, normalization and aggregation (no I/O)
  - consensus: validates submissions and computes results against storage
  - store: SQL persistence for sessions, objects, experts and ballots
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON and validation helpers
  - notify: per-session change feed broker
  - metrics: Prometheus counters
  - models: Request/response types
  - auth: Token generation and validation
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
