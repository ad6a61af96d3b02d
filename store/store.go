// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a uniqueness or state precondition failure.
	ErrConflict = errors.New("conflict")
	// ErrFull is returned when a session already has all its experts.
	ErrFull = errors.New("session is full")
)

// Store groups the per-table collaborators over one database handle.
type Store struct {
	Sessions *Sessions
	Objects  *Objects
	Experts  *Experts
	Ballots  *Ballots
}

func New(db *sql.DB) *Store {
	return &Store{
		Sessions: &Sessions{db: db},
		Objects:  &Objects{db: db},
		Experts:  &Experts{db: db},
		Ballots:  &Ballots{db: db},
	}
}

// isUniqueViolation recognizes unique constraint failures from both drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}

	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
