// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/consensus"
	"github.com/danielhkuo/quickly-rank/metrics"
	"github.com/danielhkuo/quickly-rank/notify"
	"github.com/danielhkuo/quickly-rank/store"
	"github.com/danielhkuo/quickly-rank/testutil"
)

type testEnv struct {
	db     *sql.DB
	cfg    cliparse.Config
	store  *store.Store
	events *notify.Broker

	sessions *SessionHandler
	experts  *ExpertHandler
	voting   *VotingHandler
	results  *ResultsHandler
	stream   *EventsHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { db.Close() })

	cfg := testutil.GetTestConfig()
	st := store.New(db)
	events := notify.NewBroker(notify.DefaultBuffer)
	svc := consensus.NewService(st.Sessions, st.Objects, st.Ballots, metrics.New())

	return &testEnv{
		db:       db,
		cfg:      cfg,
		store:    st,
		events:   events,
		sessions: NewSessionHandler(st, cfg, events),
		experts:  NewExpertHandler(st),
		voting:   NewVotingHandler(st, svc),
		results:  NewResultsHandler(st, svc),
		stream:   NewEventsHandler(st, events),
	}
}

// call runs a handler with path values set the way the router would
func call(h http.HandlerFunc, req *http.Request, pathValues map[string]string) *httptest.ResponseRecorder {
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
