// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/cliparse"
	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/notify"
	"github.com/danielhkuo/quickly-rank/store"
)

// MinExpertsToStart is how many experts must have joined before voting opens
const MinExpertsToStart = 2

type SessionHandler struct {
	store  *store.Store
	cfg    cliparse.Config
	events *notify.Broker
}

func NewSessionHandler(st *store.Store, cfg cliparse.Config, events *notify.Broker) *SessionHandler {
	return &SessionHandler{store: st, cfg: cfg, events: events}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	method, err := engine.ParseMethod(req.Method)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := models.Session{
		ID:           uuid.NewString(),
		Name:         name,
		Method:       method,
		ExpertsCount: req.ExpertsCount,
		ObjectsCount: req.ObjectsCount,
		Status:       models.StatusWaiting,
		CreatedAt:    time.Now().UTC(),
	}
	sess.Code = auth.GenerateSessionCode(sess.ID, h.cfg.SessionCodeSalt)

	if err := h.store.Sessions.Create(r.Context(), sess); err != nil {
		writeError(w, err, "Session not found")
		return
	}

	slog.Info("session created", "session_id", sess.ID, "method", sess.Method)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		Code:      sess.Code,
		AdminKey:  auth.GenerateAdminKey(sess.ID, h.cfg.AdminKeySalt),
	})
}

// GetSessionAdmin handles GET /sessions/:id/admin
func (h *SessionHandler) GetSessionAdmin(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	sess, err := h.store.Sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}
	objects, err := h.store.Objects.ListBySession(ctx, sessionID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}
	experts, err := h.store.Experts.ListBySession(ctx, sessionID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionAdminView{
		Session: sess,
		Objects: objects,
		Experts: experts,
	})
}

// StartSession handles POST /sessions/:id/start
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	if _, err := h.store.Sessions.Get(ctx, sessionID); err != nil {
		writeError(w, err, "Session not found")
		return
	}

	joined, _, err := h.store.Experts.Progress(ctx, sessionID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}
	if joined < MinExpertsToStart {
		middleware.ErrorResponse(w, http.StatusConflict,
			fmt.Sprintf("At least %d experts must join before voting starts", MinExpertsToStart))
		return
	}

	if err := h.store.Sessions.Transition(ctx, sessionID, models.StatusWaiting, models.StatusVoting); err != nil {
		writeError(w, err, "Session not found")
		return
	}

	slog.Info("session started", "session_id", sessionID, "experts", joined)
	h.publish(models.EventSessionStatusChanged, sessionID, models.StatusVoting)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		SessionID: sessionID,
		Status:    models.StatusVoting,
	})
}

// CreateObjects handles POST /sessions/:id/objects
func (h *SessionHandler) CreateObjects(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	var req models.CreateObjectsRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	names := make([]string, len(req.Names))
	for i, n := range req.Names {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("object %d has a blank name", i+1))
			return
		}
	}

	ctx := r.Context()
	sess, err := h.store.Sessions.Get(ctx, sessionID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}
	if sess.Status != models.StatusVoting {
		middleware.ErrorResponse(w, http.StatusConflict, "Objects can only be created while voting")
		return
	}
	if len(names) != sess.ObjectsCount {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("expected %d objects, got %d", sess.ObjectsCount, len(names)))
		return
	}

	objects, err := h.store.Objects.Create(ctx, sessionID, names)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	slog.Info("objects created", "session_id", sessionID, "count", len(objects))
	h.publish(models.EventObjectsCreated, sessionID, sess.Status)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateObjectsResponse{Objects: objects})
}

// CloseSession handles POST /sessions/:id/close
func (h *SessionHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	if err := h.store.Sessions.Transition(r.Context(), sessionID, models.StatusVoting, models.StatusClosed); err != nil {
		writeError(w, err, "Session not found")
		return
	}

	slog.Info("session closed", "session_id", sessionID)
	h.publish(models.EventSessionStatusChanged, sessionID, models.StatusClosed)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{
		SessionID: sessionID,
		Status:    models.StatusClosed,
	})
}

// GetSession handles GET /sessions/:code
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.store.Sessions.GetByCode(ctx, r.PathValue("code"))
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	objects, err := h.store.Objects.ListBySession(ctx, sess.ID)
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionWithObjects{
		Session: sess,
		Objects: objects,
	})
}

func (h *SessionHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return "", false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(sessionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return "", false
	}
	return sessionID, true
}

func (h *SessionHandler) publish(kind, sessionID, status string) {
	h.events.Publish(models.Event{
		Kind:      kind,
		SessionID: sessionID,
		Status:    status,
		At:        time.Now().UTC(),
	})
}
