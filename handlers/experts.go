// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

type ExpertHandler struct {
	store *store.Store
}

func NewExpertHandler(st *store.Store) *ExpertHandler {
	return &ExpertHandler{store: st}
}

// JoinSession handles POST /sessions/:code/join
func (h *ExpertHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	var req models.JoinSessionRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	nickname := strings.TrimSpace(req.Nickname)
	if n := utf8.RuneCountInString(nickname); n < 2 || n > 50 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nickname must be 2-50 characters")
		return
	}

	ctx := r.Context()
	sess, err := h.store.Sessions.GetByCode(ctx, r.PathValue("code"))
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}
	if sess.Status == models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is closed")
		return
	}

	token, err := auth.GenerateExpertToken()
	if err != nil {
		slog.Error("failed to generate expert token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join session")
		return
	}

	expert := models.Expert{
		ID:        uuid.NewString(),
		SessionID: sess.ID,
		Nickname:  nickname,
		Token:     token,
		JoinedAt:  time.Now().UTC(),
	}
	if err := h.store.Experts.Create(ctx, expert, sess.ExpertsCount); err != nil {
		writeError(w, err, "Session not found")
		return
	}

	slog.Info("expert joined", "session_id", sess.ID, "expert_id", expert.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinSessionResponse{
		ExpertID:    expert.ID,
		ExpertToken: token,
	})
}

// GetProgress handles GET /sessions/:code/progress
func (h *ExpertHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.store.Sessions.GetByCode(ctx, r.PathValue("code"))
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	joined, voted, err := h.store.Experts.Progress(ctx, sess.ID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProgressResponse{
		ExpertsCount:  sess.ExpertsCount,
		ExpertsJoined: joined,
		ExpertsVoted:  voted,
	})
}
