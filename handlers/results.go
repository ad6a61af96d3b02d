// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-rank/consensus"
	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

type ResultsHandler struct {
	store   *store.Store
	service *consensus.Service
}

func NewResultsHandler(st *store.Store, svc *consensus.Service) *ResultsHandler {
	return &ResultsHandler{store: st, service: svc}
}

// GetResults handles GET /sessions/:code/results
// Results are computed on every request from whatever ballots exist, so
// they are available while voting is still running. Final is set once the
// session is closed.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.store.Sessions.GetByCode(ctx, r.PathValue("code"))
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	outcome, err := h.service.Results(ctx, sess.ID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	joined, voted, err := h.store.Experts.Progress(ctx, sess.ID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	items := outcome.Items
	if items == nil {
		items = []engine.ResultItem{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Session:     outcome.Session,
		MethodLabel: outcome.Session.Method.Label(),
		Final:       outcome.Session.Status == models.StatusClosed,
		Results:     items,
		Warnings:    outcome.Warnings,
		Progress: models.ProgressResponse{
			ExpertsCount:  outcome.Session.ExpertsCount,
			ExpertsJoined: joined,
			ExpertsVoted:  voted,
		},
		ComputedAt: time.Now().UTC(),
	})
}
