// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/consensus"
	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

type VotingHandler struct {
	store   *store.Store
	service *consensus.Service
}

func NewVotingHandler(st *store.Store, svc *consensus.Service) *VotingHandler {
	return &VotingHandler{store: st, service: svc}
}

// GetPairs handles GET /sessions/:code/pairs?winner=...
// Only win counts are stored, so a resuming client replays its own answers.
func (h *VotingHandler) GetPairs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.store.Sessions.GetByCode(ctx, r.PathValue("code"))
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}
	if sess.Method != engine.MethodPairwise {
		middleware.ErrorResponse(w, http.StatusConflict, "Session does not use pairwise comparison")
		return
	}

	// Prior answers come back as repeated winner parameters in pair order;
	// an empty value leaves that comparison open.
	winners := r.URL.Query()["winner"]
	sheet, err := h.service.Comparisons(ctx, sess.ID, winners)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}
	if len(winners) > len(sheet) {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("expected at most %d winners, got %d", len(sheet), len(winners)))
		return
	}
	for _, c := range sheet {
		if c.Winner != "" && c.Winner != c.First.ID && c.Winner != c.Second.ID {
			middleware.ConstraintResponse(w, "Invalid winner", c.Winner,
				fmt.Sprintf("not part of comparison %s vs %s", c.First.ID, c.Second.ID))
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.PairsResponse{
		Total:       len(sheet),
		Complete:    engine.Complete(sheet),
		Comparisons: sheet,
	})
}

// SubmitBallot handles POST /sessions/:code/ballots
// A second submission from the same expert replaces the first.
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	sess, expert, ok := h.resolveExpert(w, r)
	if !ok {
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	_, err := h.service.Submit(r.Context(), sess.ID, expert.ID, engine.Input{
		Order:   req.Order,
		Scores:  req.Scores,
		Winners: req.Winners,
		Weights: req.Weights,
	})
	if err != nil {
		writeError(w, err, "Expert not found")
		return
	}

	slog.Info("ballot submitted", "session_id", sess.ID, "expert_id", expert.ID, "method", sess.Method)

	middleware.JSONResponse(w, http.StatusOK, models.SubmitBallotResponse{
		ExpertID: expert.ID,
		Message:  "Ballot recorded",
	})
}

// GetMyBallot handles GET /sessions/:code/my-ballot
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	sess, expert, ok := h.resolveExpert(w, r)
	if !ok {
		return
	}

	ballot, err := h.store.Ballots.GetForExpert(r.Context(), sess.ID, expert.ID)
	if errors.Is(err, store.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.MyBallotResponse{
			ExpertID: expert.ID,
			Values:   map[string]engine.Value{},
		})
		return
	}
	if err != nil {
		writeError(w, err, "Ballot not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyBallotResponse{
		ExpertID: expert.ID,
		HasVoted: true,
		Values:   ballot.Values,
	})
}

func (h *VotingHandler) resolveExpert(w http.ResponseWriter, r *http.Request) (models.Session, models.Expert, bool) {
	token := r.Header.Get("X-Expert-Token")
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Expert-Token header required")
		return models.Session{}, models.Expert{}, false
	}

	if err := auth.CheckExpertToken(token); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid expert token")
		return models.Session{}, models.Expert{}, false
	}

	ctx := r.Context()
	sess, err := h.store.Sessions.GetByCode(ctx, r.PathValue("code"))
	if err != nil {
		writeError(w, err, "Session not found")
		return models.Session{}, models.Expert{}, false
	}

	expert, err := h.store.Experts.GetByToken(ctx, sess.ID, token)
	if errors.Is(err, store.ErrNotFound) {
		slog.Warn("unknown expert token", "session_id", sess.ID, "error", auth.ErrInvalidExpertToken)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid expert token")
		return models.Session{}, models.Expert{}, false
	}
	if err != nil {
		writeError(w, err, "Expert not found")
		return models.Session{}, models.Expert{}, false
	}

	return sess, expert, true
}
