// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/models"
)

type Ballots struct {
	db *sql.DB
}

// ReplaceForExpert retires the expert's previous ballot and writes the new
// one in a single transaction, then marks the expert as having voted.
// Readers see either the old or the new ballot, never a mix. Nothing is
// written unless the session is voting when the transaction runs.
func (b *Ballots) ReplaceForExpert(ctx context.Context, sessionID, expertID string, ballot engine.Ballot) error {
	if len(ballot.Values) == 0 {
		return fmt.Errorf("refusing to store an empty ballot")
	}

	// Encode everything before the transaction opens.
	ids := make([]string, 0, len(ballot.Values))
	payloads := make(map[string][]byte, len(ballot.Values))
	for objectID, v := range ballot.Values {
		raw, err := engine.EncodeValue(v)
		if err != nil {
			return fmt.Errorf("encode value for %s: %w", objectID, err)
		}
		ids = append(ids, objectID)
		payloads[objectID] = raw
	}
	sort.Strings(ids)

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockVotingSession(ctx, tx, sessionID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM vote WHERE session_id = $1 AND expert_id = $2
	`, sessionID, expertID)
	if err != nil {
		return fmt.Errorf("delete old votes: %w", err)
	}

	now := time.Now().UTC()
	for _, objectID := range ids {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO vote (session_id, expert_id, object_id, vote_value, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, sessionID, expertID, objectID, string(payloads[objectID]), now)
		if err != nil {
			return fmt.Errorf("insert vote: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE expert SET has_voted = $1 WHERE id = $2 AND session_id = $3
	`, true, expertID, sessionID)
	if err != nil {
		return fmt.Errorf("mark expert voted: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("expert %s: %w", expertID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ballot: %w", err)
	}
	return nil
}

// lockVotingSession touches the session row so a concurrent close waits for
// this transaction, and fails with models.ErrNotVoting unless the session is
// voting at that point.
func lockVotingSession(ctx context.Context, tx *sql.Tx, sessionID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE session SET status = status
		WHERE id = $1 AND status = $2
	`, sessionID, models.StatusVoting)
	if err != nil {
		return fmt.Errorf("lock session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("lock session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", sessionID, models.ErrNotVoting)
	}
	return nil
}

// ListBySession returns every live ballot of a session, ordered by expert ID.
func (b *Ballots) ListBySession(ctx context.Context, sessionID string) ([]engine.Ballot, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT v.expert_id, v.object_id, v.vote_value, s.method
		FROM vote v
		JOIN session s ON s.id = v.session_id
		WHERE v.session_id = $1
		ORDER BY v.expert_id, v.object_id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	ballots := []engine.Ballot{}
	for rows.Next() {
		var expertID, objectID, payload, method string
		if err := rows.Scan(&expertID, &objectID, &payload, &method); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}

		v, err := engine.DecodeValue(engine.Method(method), []byte(payload))
		if err != nil {
			return nil, fmt.Errorf("vote %s/%s: %w", expertID, objectID, err)
		}

		if n := len(ballots); n == 0 || ballots[n-1].ExpertID != expertID {
			ballots = append(ballots, engine.Ballot{ExpertID: expertID, Values: map[string]engine.Value{}})
		}
		ballots[len(ballots)-1].Values[objectID] = v
	}

	return ballots, rows.Err()
}

// GetForExpert returns one expert's live ballot, or ErrNotFound.
func (b *Ballots) GetForExpert(ctx context.Context, sessionID, expertID string) (engine.Ballot, error) {
	ballots, err := b.ListBySession(ctx, sessionID)
	if err != nil {
		return engine.Ballot{}, err
	}
	for _, ballot := range ballots {
		if ballot.ExpertID == expertID {
			return ballot, nil
		}
	}
	return engine.Ballot{}, ErrNotFound
}
