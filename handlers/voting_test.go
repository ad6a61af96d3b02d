// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/testutil"
)

func TestJoinSession(t *testing.T) {
	env := newTestEnv(t)
	_, _, code := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodDirect, models.StatusWaiting)
	_, _, closedCode := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodDirect, models.StatusClosed)

	join := func(code, nickname string) *models.JoinSessionResponse {
		req := testutil.MakeRequest("POST", "/sessions/"+code+"/join", models.JoinSessionRequest{Nickname: nickname}, nil)
		w := call(env.experts.JoinSession, req, map[string]string{"code": code})
		if w.Code != http.StatusCreated {
			t.Logf("join %q: %d %s", nickname, w.Code, w.Body.String())
			return nil
		}
		var resp models.JoinSessionResponse
		testutil.AssertJSON(t, w, &resp)
		return &resp
	}

	tests := []struct {
		name     string
		code     string
		nickname string
		wantOK   bool
	}{
		{"first expert", code, "alice", true},
		{"duplicate nickname", code, "alice", false},
		{"too short", code, "a", false},
		{"whitespace only", code, "    ", false},
		{"second expert", code, "bob", true},
		{"third expert", code, "carol", true},
		{"over capacity", code, "dave", false},
		{"closed session", closedCode, "erin", false},
		{"unknown session", "nope", "frank", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := join(tt.code, tt.nickname)
			if (resp != nil) != tt.wantOK {
				t.Fatalf("join ok = %v, want %v", resp != nil, tt.wantOK)
			}
			if resp != nil && (resp.ExpertID == "" || resp.ExpertToken == "") {
				t.Errorf("Expected expert_id and expert_token, got %+v", resp)
			}
		})
	}
}

func TestSubmitBallot(t *testing.T) {
	env := newTestEnv(t)
	sessionID, _, code := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodDirect, models.StatusVoting)
	objects := testutil.AddTestObjects(t, env.db, sessionID, "A", "B", "C")
	_, token := testutil.CreateTestExpert(t, env.db, sessionID, "alice")

	valid := map[string]float64{objects[0].ID: 8, objects[1].ID: 5, objects[2].ID: 2}

	tests := []struct {
		name           string
		token          string
		body           interface{}
		expectedStatus int
		objectID       string
	}{
		{
			name:           "missing token",
			body:           models.SubmitBallotRequest{Scores: valid},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed token",
			token:          "not-a-token",
			body:           models.SubmitBallotRequest{Scores: valid},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "well-formed unknown token",
			token:          "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
			body:           models.SubmitBallotRequest{Scores: valid},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "score out of range",
			token:          token,
			body:           models.SubmitBallotRequest{Scores: map[string]float64{objects[0].ID: 11, objects[1].ID: 5, objects[2].ID: 2}},
			expectedStatus: http.StatusBadRequest,
			objectID:       objects[0].ID,
		},
		{
			name:           "missing score",
			token:          token,
			body:           models.SubmitBallotRequest{Scores: map[string]float64{objects[0].ID: 1, objects[1].ID: 5}},
			expectedStatus: http.StatusBadRequest,
			objectID:       objects[2].ID,
		},
		{
			name:           "invalid JSON",
			token:          token,
			body:           "nope",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "valid ballot",
			token:          token,
			body:           models.SubmitBallotRequest{Scores: valid},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.token != "" {
				headers["X-Expert-Token"] = tt.token
			}
			req := testutil.MakeRequest("POST", "/sessions/"+code+"/ballots", tt.body, headers)
			w := call(env.voting.SubmitBallot, req, map[string]string{"code": code})
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.objectID != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.ObjectID != tt.objectID || resp.Constraint == "" {
					t.Errorf("Expected constraint on %s, got %+v", tt.objectID, resp)
				}
			}
		})
	}

	// Invalid submissions left nothing behind; the valid one is the only ballot
	ballots, err := env.store.Ballots.ListBySession(t.Context(), sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ballots) != 1 {
		t.Fatalf("Expected 1 ballot, got %d", len(ballots))
	}
}

func TestSubmitBallotOutsideVoting(t *testing.T) {
	env := newTestEnv(t)

	for _, status := range []string{models.StatusWaiting, models.StatusClosed} {
		t.Run(status, func(t *testing.T) {
			sessionID, _, code := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodRanking, status)
			objects := testutil.AddTestObjects(t, env.db, sessionID, "A", "B")
			_, token := testutil.CreateTestExpert(t, env.db, sessionID, "alice")

			body := models.SubmitBallotRequest{Order: []string{objects[1].ID, objects[0].ID}}
			req := testutil.MakeRequest("POST", "/sessions/"+code+"/ballots", body, map[string]string{"X-Expert-Token": token})
			w := call(env.voting.SubmitBallot, req, map[string]string{"code": code})
			testutil.AssertStatus(t, w, http.StatusConflict)
		})
	}
}

func TestResubmitReplacesBallot(t *testing.T) {
	env := newTestEnv(t)
	sessionID, _, code := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodChurchman, models.StatusVoting)
	objects := testutil.AddTestObjects(t, env.db, sessionID, "A", "B", "C")
	_, token := testutil.CreateTestExpert(t, env.db, sessionID, "alice")
	headers := map[string]string{"X-Expert-Token": token}

	submit := func(weights map[string]float64) {
		req := testutil.MakeRequest("POST", "/sessions/"+code+"/ballots", models.SubmitBallotRequest{Weights: weights}, headers)
		w := call(env.voting.SubmitBallot, req, map[string]string{"code": code})
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	submit(map[string]float64{objects[0].ID: 1, objects[1].ID: 1, objects[2].ID: 2})
	submit(map[string]float64{objects[0].ID: 3, objects[1].ID: 1, objects[2].ID: 0})

	req := testutil.MakeRequest("GET", "/sessions/"+code+"/my-ballot", nil, headers)
	w := call(env.voting.GetMyBallot, req, map[string]string{"code": code})
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp struct {
		HasVoted bool                          `json:"has_voted"`
		Values   map[string]engine.WeightValue `json:"values"`
	}
	testutil.AssertJSON(t, w, &resp)
	if !resp.HasVoted {
		t.Error("Expected has_voted")
	}
	if got := resp.Values[objects[0].ID].NormalizedWeight; got != 0.75 {
		t.Errorf("Expected latest normalized weight 0.75, got %v", got)
	}
	if got := resp.Values[objects[2].ID].NormalizedWeight; got != 0 {
		t.Errorf("Expected latest normalized weight 0, got %v", got)
	}
}

func TestGetMyBallotBeforeVoting(t *testing.T) {
	env := newTestEnv(t)
	sessionID, _, code := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodDirect, models.StatusVoting)
	testutil.AddTestObjects(t, env.db, sessionID, "A", "B")
	_, token := testutil.CreateTestExpert(t, env.db, sessionID, "alice")

	req := testutil.MakeRequest("GET", "/sessions/"+code+"/my-ballot", nil, map[string]string{"X-Expert-Token": token})
	w := call(env.voting.GetMyBallot, req, map[string]string{"code": code})
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp map[string]json.RawMessage
	testutil.AssertJSON(t, w, &resp)
	if string(resp["has_voted"]) != "false" || string(resp["values"]) != "{}" {
		t.Errorf("Expected empty ballot, got %v", resp)
	}
}

func TestGetPairs(t *testing.T) {
	env := newTestEnv(t)
	sessionID, _, code := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodPairwise, models.StatusVoting)
	objects := testutil.AddTestObjects(t, env.db, sessionID, "A", "B", "C", "D")

	req := testutil.MakeRequest("GET", "/sessions/"+code+"/pairs", nil, nil)
	w := call(env.voting.GetPairs, req, map[string]string{"code": code})
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.PairsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Total != 6 || len(resp.Comparisons) != 6 {
		t.Fatalf("Expected 6 comparisons, got total=%d len=%d", resp.Total, len(resp.Comparisons))
	}

	// (i, j) with i < j, outer loop over i
	want := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for k, c := range resp.Comparisons {
		if c.First.ID != objects[want[k][0]].ID || c.Second.ID != objects[want[k][1]].ID {
			t.Errorf("Comparison %d = (%s, %s), want (%s, %s)", k,
				c.First.Name, c.Second.Name, objects[want[k][0]].Name, objects[want[k][1]].Name)
		}
	}

	directID, _, directCode := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodDirect, models.StatusVoting)
	testutil.AddTestObjects(t, env.db, directID, "A", "B")
	req = testutil.MakeRequest("GET", "/sessions/"+directCode+"/pairs", nil, nil)
	w = call(env.voting.GetPairs, req, map[string]string{"code": directCode})
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestGetPairsResume(t *testing.T) {
	env := newTestEnv(t)
	sessionID, _, code := testutil.CreateTestSession(t, env.db, env.cfg, engine.MethodPairwise, models.StatusVoting)
	objects := testutil.AddTestObjects(t, env.db, sessionID, "A", "B", "C")
	a, b, c := objects[0].ID, objects[1].ID, objects[2].ID

	get := func(query string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/sessions/"+code+"/pairs"+query, nil, nil)
		return call(env.voting.GetPairs, req, map[string]string{"code": code})
	}

	// Second comparison left open
	w := get("?winner=" + a + "&winner=&winner=" + c)
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.PairsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Complete {
		t.Error("Expected incomplete sheet")
	}
	if resp.Comparisons[0].Winner != a || resp.Comparisons[1].Winner != "" || resp.Comparisons[2].Winner != c {
		t.Errorf("Winners not laid back by position: %+v", resp.Comparisons)
	}

	w = get("?winner=" + b + "&winner=" + a + "&winner=" + b)
	testutil.AssertStatus(t, w, http.StatusOK)
	resp = models.PairsResponse{}
	testutil.AssertJSON(t, w, &resp)
	if !resp.Complete {
		t.Error("Expected complete sheet")
	}

	// c is not part of the first comparison (a vs b)
	w = get("?winner=" + c)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	var errResp models.ErrorResponse
	testutil.AssertJSON(t, w, &errResp)
	if errResp.ObjectID != c {
		t.Errorf("Expected constraint on %s, got %+v", c, errResp)
	}

	w = get("?winner=" + a + "&winner=" + a + "&winner=" + b + "&winner=" + a)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
