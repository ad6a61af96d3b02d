// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Open connects to the configured database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver, dsn string
	switch dbType {
	case TypePostgres:
		driver, dsn = "postgres", url
	case TypeSQLite, "":
		driver, dsn = "sqlite", sqliteDSN(url)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" {
		// Single writer.
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	return conn, nil
}

func sqliteDSN(url string) string {
	url = strings.TrimPrefix(url, "sqlite://")
	if strings.Contains(url, "_pragma=") {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

const schema = `
-- Sessions
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    code TEXT NOT NULL UNIQUE,
    method TEXT NOT NULL CHECK (method IN ('ranking', 'direct', 'pairwise', 'churchman')),
    experts_count INTEGER NOT NULL CHECK (experts_count >= 2),
    objects_count INTEGER NOT NULL CHECK (objects_count >= 2),
    status TEXT NOT NULL DEFAULT 'waiting' CHECK (status IN ('waiting', 'voting', 'closed')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    closed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_session_code ON session(code);

-- Objects
CREATE TABLE IF NOT EXISTS voting_object (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    object_order INTEGER NOT NULL CHECK (object_order >= 1),
    UNIQUE (session_id, object_order)
);

CREATE INDEX IF NOT EXISTS idx_voting_object_session_id ON voting_object(session_id);

-- Experts
CREATE TABLE IF NOT EXISTS expert (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    nickname TEXT NOT NULL,
    token TEXT NOT NULL UNIQUE,
    has_voted BOOLEAN NOT NULL DEFAULT FALSE,
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (session_id, nickname)
);

CREATE INDEX IF NOT EXISTS idx_expert_session_id ON expert(session_id);

-- Votes: one row per (expert, object). The rows of one expert form that
-- expert's ballot and are only ever replaced as a whole.
CREATE TABLE IF NOT EXISTS vote (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    expert_id TEXT NOT NULL REFERENCES expert(id) ON DELETE CASCADE,
    object_id TEXT NOT NULL REFERENCES voting_object(id) ON DELETE CASCADE,
    vote_value TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (expert_id, object_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_session_id ON vote(session_id);
`
