// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-rank/engine"
)

type Objects struct {
	db *sql.DB
}

// Create inserts the session's objects in the given order (1..N). Objects
// can be created once per session; a second call fails with ErrConflict so
// the order pairwise comparisons depend on never changes.
func (o *Objects) Create(ctx context.Context, sessionID string, names []string) ([]engine.Object, error) {
	tx, err := o.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM voting_object WHERE session_id = $1
	`, sessionID).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("count objects: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("objects already created: %w", ErrConflict)
	}

	objects := make([]engine.Object, len(names))
	for i, name := range names {
		obj := engine.Object{ID: uuid.NewString(), Name: name, Order: i + 1}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO voting_object (id, session_id, name, object_order)
			VALUES ($1, $2, $3, $4)
		`, obj.ID, sessionID, obj.Name, obj.Order)
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("objects already created: %w", ErrConflict)
		}
		if err != nil {
			return nil, fmt.Errorf("insert object: %w", err)
		}
		objects[i] = obj
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit objects: %w", err)
	}
	return objects, nil
}

// ListBySession returns the session's objects ordered by their order index.
func (o *Objects) ListBySession(ctx context.Context, sessionID string) ([]engine.Object, error) {
	rows, err := o.db.QueryContext(ctx, `
		SELECT id, name, object_order
		FROM voting_object
		WHERE session_id = $1
		ORDER BY object_order
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	objects := []engine.Object{}
	for rows.Next() {
		var obj engine.Object
		if err := rows.Scan(&obj.ID, &obj.Name, &obj.Order); err != nil {
			return nil, fmt.Errorf("scan object: %w", err)
		}
		objects = append(objects, obj)
	}

	return objects, rows.Err()
}
