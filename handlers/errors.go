// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/consensus"
	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/store"
)

// writeError maps domain and storage errors to HTTP responses. Anything it
// does not recognize is logged and reported as a 500.
func writeError(w http.ResponseWriter, err error, notFound string) {
	var (
		verr *engine.ValidationError
		nerr *engine.NormalizationError
	)
	switch {
	case errors.As(err, &verr):
		middleware.ConstraintResponse(w, "Invalid ballot", verr.ObjectID, verr.Constraint)
	case errors.As(err, &nerr):
		middleware.ConstraintResponse(w, "Weights cannot be normalized", nerr.ObjectID, nerr.Reason)
	case errors.Is(err, engine.ErrNoObjects):
		middleware.ErrorResponse(w, http.StatusConflict, "Session has no objects yet")
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, notFound)
	case errors.Is(err, consensus.ErrNotVoting):
		middleware.ErrorResponse(w, http.StatusConflict, "Session is not open for voting")
	case errors.Is(err, store.ErrFull):
		middleware.ErrorResponse(w, http.StatusConflict, "Session already has all its experts")
	case errors.Is(err, store.ErrConflict):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
