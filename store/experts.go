// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-rank/models"
)

type Experts struct {
	db *sql.DB
}

// Create adds an expert unless the session already has limit experts.
// Nicknames are unique per session (ErrConflict). An unknown session yields
// ErrNotFound.
func (e *Experts) Create(ctx context.Context, expert models.Expert, limit int) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Concurrent joins to one session queue on the session row lock, so the
	// count below cannot go stale before the insert.
	res, err := tx.ExecContext(ctx, `
		UPDATE session SET experts_count = experts_count WHERE id = $1
	`, expert.SessionID)
	if err != nil {
		return fmt.Errorf("lock session: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("lock session: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	var joined int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM expert WHERE session_id = $1
	`, expert.SessionID).Scan(&joined)
	if err != nil {
		return fmt.Errorf("count experts: %w", err)
	}
	if joined >= limit {
		return ErrFull
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expert (id, session_id, nickname, token, has_voted, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, expert.ID, expert.SessionID, expert.Nickname, expert.Token, false, expert.JoinedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("nickname %q: %w", expert.Nickname, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("insert expert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit expert: %w", err)
	}
	return nil
}

// GetByToken resolves an expert token within a session.
func (e *Experts) GetByToken(ctx context.Context, sessionID, token string) (models.Expert, error) {
	var ex models.Expert
	err := e.db.QueryRowContext(ctx, `
		SELECT id, session_id, nickname, token, has_voted, joined_at
		FROM expert
		WHERE session_id = $1 AND token = $2
	`, sessionID, token).Scan(&ex.ID, &ex.SessionID, &ex.Nickname, &ex.Token, &ex.HasVoted, &ex.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Expert{}, ErrNotFound
	}
	if err != nil {
		return models.Expert{}, fmt.Errorf("query expert: %w", err)
	}
	return ex, nil
}

// ListBySession returns experts in join order.
func (e *Experts) ListBySession(ctx context.Context, sessionID string) ([]models.Expert, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT id, session_id, nickname, token, has_voted, joined_at
		FROM expert
		WHERE session_id = $1
		ORDER BY joined_at, nickname
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query experts: %w", err)
	}
	defer rows.Close()

	experts := []models.Expert{}
	for rows.Next() {
		var ex models.Expert
		if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.Nickname, &ex.Token, &ex.HasVoted, &ex.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan expert: %w", err)
		}
		experts = append(experts, ex)
	}

	return experts, rows.Err()
}

// Progress counts joined experts and those with a live ballot.
func (e *Experts) Progress(ctx context.Context, sessionID string) (joined, voted int, err error) {
	err = e.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN has_voted THEN 1 ELSE 0 END), 0)
		FROM expert
		WHERE session_id = $1
	`, sessionID).Scan(&joined, &voted)
	if err != nil {
		return 0, 0, fmt.Errorf("count experts: %w", err)
	}
	return joined, voted, nil
}
