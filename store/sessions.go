// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/models"
)

type Sessions struct {
	db *sql.DB
}

const sessionColumns = `id, name, code, method, experts_count, objects_count, status, created_at, closed_at`

// Create inserts a new session. The code must be unique.
func (s *Sessions) Create(ctx context.Context, sess models.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, name, code, method, experts_count, objects_count, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sess.ID, sess.Name, sess.Code, string(sess.Method), sess.ExpertsCount, sess.ObjectsCount, sess.Status, sess.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("session code %s: %w", sess.Code, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Get returns a session by ID.
func (s *Sessions) Get(ctx context.Context, id string) (models.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM session WHERE id = $1`, id)
	return scanSession(row)
}

// GetByCode returns a session by its join code.
func (s *Sessions) GetByCode(ctx context.Context, code string) (models.Session, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM session WHERE code = $1`, code)
	return scanSession(row)
}

// Transition moves a session from one status to another. It fails with
// ErrConflict if the session is not currently in the from status.
func (s *Sessions) Transition(ctx context.Context, id, from, to string) error {
	var (
		res sql.Result
		err error
	)
	if to == models.StatusClosed {
		res, err = s.db.ExecContext(ctx, `
			UPDATE session SET status = $1, closed_at = $2
			WHERE id = $3 AND status = $4
		`, to, time.Now().UTC(), id, from)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE session SET status = $1
			WHERE id = $2 AND status = $3
		`, to, id, from)
	}
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if n == 1 {
		return nil
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("session is not %s: %w", from, ErrConflict)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (models.Session, error) {
	var (
		sess     models.Session
		method   string
		closedAt sql.NullTime
	)
	err := row.Scan(
		&sess.ID, &sess.Name, &sess.Code, &method, &sess.ExpertsCount,
		&sess.ObjectsCount, &sess.Status, &sess.CreatedAt, &closedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrNotFound
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("scan session: %w", err)
	}

	sess.Method = engine.Method(method)
	if closedAt.Valid {
		t := closedAt.Time
		sess.ClosedAt = &t
	}
	return sess, nil
}
