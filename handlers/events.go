// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/websocket"

	"github.com/danielhkuo/quickly-rank/notify"
	"github.com/danielhkuo/quickly-rank/store"
)

type EventsHandler struct {
	store  *store.Store
	events *notify.Broker
}

func NewEventsHandler(st *store.Store, events *notify.Broker) *EventsHandler {
	return &EventsHandler{store: st, events: events}
}

// Stream handles GET /sessions/:code/events
// The socket carries models.Event frames as JSON. Clients treat each frame
// as a signal to re-read the session; frames carry no ballot data.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Sessions.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err, "Session not found")
		return
	}

	server := websocket.Server{Handler: func(conn *websocket.Conn) {
		h.serve(conn, sess.ID)
	}}
	server.ServeHTTP(w, r)
}

func (h *EventsHandler) serve(conn *websocket.Conn, sessionID string) {
	defer func() {
		_ = conn.Close()
	}()

	events, cancel := h.events.Subscribe(sessionID)
	defer cancel()

	// Incoming frames are ignored. A read error means the client went away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		_, _ = io.Copy(io.Discard, conn)
	}()

	slog.Info("event stream opened", "session_id", sessionID)
	defer slog.Info("event stream closed", "session_id", sessionID)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := websocket.JSON.Send(conn, ev); err != nil {
				slog.Warn("failed to send event", "session_id", sessionID, "error", err)
				return
			}
		case <-gone:
			return
		}
	}
}
