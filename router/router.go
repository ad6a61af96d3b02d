// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/consensus"
	"github.com/danielhkuo/quickly-rank/handlers"
	"github.com/danielhkuo/quickly-rank/metrics"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/notify"
	"github.com/danielhkuo/quickly-rank/store"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	st := store.New(db)
	m := metrics.New()
	events := notify.NewBroker(notify.DefaultBuffer)
	svc := consensus.NewService(st.Sessions, st.Objects, st.Ballots, m)

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(st, cfg, events)
	expertHandler := handlers.NewExpertHandler(st)
	votingHandler := handlers.NewVotingHandler(st, svc)
	resultsHandler := handlers.NewResultsHandler(st, svc)
	eventsHandler := handlers.NewEventsHandler(st, events)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", m.Handler())

	// Session management (admin operations)
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}/admin", middleware.WithLogging(sessionHandler.GetSessionAdmin))
	mux.HandleFunc("POST /sessions/{id}/start", middleware.WithLogging(sessionHandler.StartSession))
	mux.HandleFunc("POST /sessions/{id}/objects", middleware.WithLogging(sessionHandler.CreateObjects))
	mux.HandleFunc("POST /sessions/{id}/close", middleware.WithLogging(sessionHandler.CloseSession))

	// Expert operations (public, by join code)
	mux.HandleFunc("GET /sessions/{code}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /sessions/{code}/join", middleware.WithLogging(expertHandler.JoinSession))
	mux.HandleFunc("GET /sessions/{code}/progress", middleware.WithLogging(expertHandler.GetProgress))
	mux.HandleFunc("GET /sessions/{code}/pairs", middleware.WithLogging(votingHandler.GetPairs))
	mux.HandleFunc("POST /sessions/{code}/ballots", middleware.WithLogging(votingHandler.SubmitBallot))
	mux.HandleFunc("GET /sessions/{code}/my-ballot", middleware.WithLogging(votingHandler.GetMyBallot))

	// Results and change feed
	mux.HandleFunc("GET /sessions/{code}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /sessions/{code}/events", middleware.WithLogging(eventsHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-rank API v1"))
	})

	return mux
}
