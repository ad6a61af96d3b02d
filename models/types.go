// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"time"

	"github.com/danielhkuo/quickly-rank/engine"
)

// Session status constants
const (
	StatusWaiting = "waiting"
	StatusVoting  = "voting"
	StatusClosed  = "closed"
)

// ErrNotVoting is returned when a ballot arrives outside the voting phase.
var ErrNotVoting = errors.New("session is not open for voting")

// Change feed event kinds
const (
	EventObjectsCreated       = "objects_created"
	EventSessionStatusChanged = "session_status_changed"
)

// Request types

type CreateSessionRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Method       string `json:"method" validate:"required,oneof=ranking direct pairwise churchman"`
	ExpertsCount int    `json:"experts_count" validate:"min=2,max=100"`
	ObjectsCount int    `json:"objects_count" validate:"min=2,max=50"`
}

type JoinSessionRequest struct {
	Nickname string `json:"nickname" validate:"required,min=2,max=50"`
}

type CreateObjectsRequest struct {
	Names []string `json:"names" validate:"required,min=2,dive,required,max=200"`
}

// SubmitBallotRequest carries the raw input; only the field for the
// session's method is read.
type SubmitBallotRequest struct {
	Order   []string           `json:"order,omitempty"`
	Scores  map[string]float64 `json:"scores,omitempty"`
	Winners []string           `json:"winners,omitempty"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
	AdminKey  string `json:"admin_key"`
}

type JoinSessionResponse struct {
	ExpertID    string `json:"expert_id"`
	ExpertToken string `json:"expert_token"`
}

type CreateObjectsResponse struct {
	Objects []engine.Object `json:"objects"`
}

type SubmitBallotResponse struct {
	ExpertID string `json:"expert_id"`
	Message  string `json:"message"`
}

type StatusResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type PairsResponse struct {
	Total       int                 `json:"total"`
	Complete    bool                `json:"complete"`
	Comparisons []engine.Comparison `json:"comparisons"`
}

type MyBallotResponse struct {
	ExpertID string                  `json:"expert_id"`
	HasVoted bool                    `json:"has_voted"`
	Values   map[string]engine.Value `json:"values"`
}

type ProgressResponse struct {
	ExpertsCount  int `json:"experts_count"`
	ExpertsJoined int `json:"experts_joined"`
	ExpertsVoted  int `json:"experts_voted"`
}

type ResultsResponse struct {
	Session     Session                     `json:"session"`
	MethodLabel string                      `json:"method_label"`
	Final       bool                        `json:"final"`
	Results     []engine.ResultItem         `json:"results"`
	Warnings    []engine.AggregationWarning `json:"warnings,omitempty"`
	Progress    ProgressResponse            `json:"progress"`
	ComputedAt  time.Time                   `json:"computed_at"`
}

// Domain types

type Session struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Code         string        `json:"code"`
	Method       engine.Method `json:"method"`
	ExpertsCount int           `json:"experts_count"`
	ObjectsCount int           `json:"objects_count"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	ClosedAt     *time.Time    `json:"closed_at,omitempty"`
}

type Expert struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Nickname  string    `json:"nickname"`
	Token     string    `json:"-"` // Never expose in JSON
	HasVoted  bool      `json:"has_voted"`
	JoinedAt  time.Time `json:"joined_at"`
}

type SessionWithObjects struct {
	Session Session         `json:"session"`
	Objects []engine.Object `json:"objects"`
}

type SessionAdminView struct {
	Session Session         `json:"session"`
	Objects []engine.Object `json:"objects"`
	Experts []Expert        `json:"experts"`
}

// Event is one change feed notification.
type Event struct {
	Kind      string    `json:"kind"`
	SessionID string    `json:"session_id"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// Error response

type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	ObjectID   string `json:"object_id,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}
