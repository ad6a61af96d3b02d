// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/db"
	"github.com/danielhkuo/quickly-rank/engine"
)

// SetupTestDB opens a private in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		DatabaseType:    db.TypeSQLite,
		AdminKeySalt:    "test-admin-salt",
		SessionCodeSalt: "test-code-salt",
	}
}

// CreateTestSession creates a session and returns its ID, admin key and join code
// status should be "waiting", "voting", or "closed"
func CreateTestSession(t *testing.T, conn *sql.DB, cfg cliparse.Config, method engine.Method, status string) (sessionID, adminKey, code string) {
	t.Helper()

	sessionID = uuid.NewString()
	adminKey = auth.GenerateAdminKey(sessionID, cfg.AdminKeySalt)
	code = auth.GenerateSessionCode(sessionID, cfg.SessionCodeSalt)

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now().UTC()
		closedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO session (id, name, code, method, experts_count, objects_count, status, created_at, closed_at)
		VALUES ($1, 'Test Session', $2, $3, 3, 3, $4, $5, $6)
	`, sessionID, code, string(method), status, time.Now().UTC(), closedAt)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return sessionID, adminKey, code
}

// AddTestObjects adds objects to a session in the given order
func AddTestObjects(t *testing.T, conn *sql.DB, sessionID string, names ...string) []engine.Object {
	t.Helper()

	objects := make([]engine.Object, len(names))
	for i, name := range names {
		obj := engine.Object{ID: fmt.Sprintf("obj-%d-%s", i+1, uuid.NewString()[:8]), Name: name, Order: i + 1}
		_, err := conn.Exec(`
			INSERT INTO voting_object (id, session_id, name, object_order)
			VALUES ($1, $2, $3, $4)
		`, obj.ID, sessionID, obj.Name, obj.Order)
		if err != nil {
			t.Fatalf("Failed to create test object: %v", err)
		}
		objects[i] = obj
	}

	return objects
}

// CreateTestExpert joins an expert to a session and returns its ID and token
func CreateTestExpert(t *testing.T, conn *sql.DB, sessionID, nickname string) (expertID, token string) {
	t.Helper()

	expertID = uuid.NewString()
	token, _ = auth.GenerateExpertToken()
	_, err := conn.Exec(`
		INSERT INTO expert (id, session_id, nickname, token, has_voted, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, expertID, sessionID, nickname, token, false, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test expert: %v", err)
	}

	return expertID, token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
