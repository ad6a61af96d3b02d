// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connecting

Open selects the driver from the database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...") // github.com/lib/pq
	conn, err := db.Open(db.TypeSQLite, "quickly-rank.db")   // modernc.org/sqlite

SQLite connections enable foreign keys and are limited to one open
connection.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The SQL sticks to types and defaults both drivers understand.

# Tables

  - session: method, configured counts, lifecycle status, join code
  - voting_object: objects per session with a frozen 1..N order
  - expert: participants, their token and has_voted flag
  - vote: one canonical JSON value per (expert, object)

# Relationships

	session 1──* voting_object
	session 1──* expert
	expert  1──* vote *──1 voting_object

All foreign keys use ON DELETE CASCADE.
*/
package db
