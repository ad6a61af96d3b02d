// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package consensus

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/quickly-rank/engine"
	"github.com/danielhkuo/quickly-rank/metrics"
	"github.com/danielhkuo/quickly-rank/models"
)

// ErrNotVoting is returned when a ballot arrives outside the voting phase,
// including when the session closes while the ballot is being written.
var ErrNotVoting = models.ErrNotVoting

type SessionStore interface {
	Get(ctx context.Context, sessionID string) (models.Session, error)
}

// ObjectStore returns objects ordered by their frozen order index.
type ObjectStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]engine.Object, error)
}

// BallotStore must replace an expert's ballot atomically and only while the
// session is still voting, failing with ErrNotVoting otherwise.
type BallotStore interface {
	ListBySession(ctx context.Context, sessionID string) ([]engine.Ballot, error)
	ReplaceForExpert(ctx context.Context, sessionID, expertID string, ballot engine.Ballot) error
}

// Service validates submissions and computes results against the stores.
// It holds no state of its own; every call reads a fresh snapshot.
type Service struct {
	sessions SessionStore
	objects  ObjectStore
	ballots  BallotStore
	metrics  *metrics.Metrics
}

func NewService(sessions SessionStore, objects ObjectStore, ballots BallotStore, m *metrics.Metrics) *Service {
	return &Service{sessions: sessions, objects: objects, ballots: ballots, metrics: m}
}

// Submit captures an expert's raw input and replaces their live ballot.
// Validation failures return before any store mutation. Store errors are
// returned unchanged.
func (s *Service) Submit(ctx context.Context, sessionID, expertID string, in engine.Input) (engine.Ballot, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return engine.Ballot{}, err
	}
	if sess.Status != models.StatusVoting {
		return engine.Ballot{}, ErrNotVoting
	}

	objects, err := s.objects.ListBySession(ctx, sessionID)
	if err != nil {
		return engine.Ballot{}, err
	}

	ballot, err := engine.Capture(sess.Method, objects, expertID, in)
	if err != nil {
		s.metrics.BallotSubmitted(string(sess.Method), metrics.OutcomeInvalid)
		return engine.Ballot{}, err
	}

	if err := s.ballots.ReplaceForExpert(ctx, sessionID, expertID, ballot); err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, ErrNotVoting) {
			outcome = metrics.OutcomeInvalid
		}
		s.metrics.BallotSubmitted(string(sess.Method), outcome)
		return engine.Ballot{}, err
	}

	s.metrics.BallotSubmitted(string(sess.Method), metrics.OutcomeAccepted)
	return ballot, nil
}

// Outcome is one computed result over the ballots present at call time.
type Outcome struct {
	Session  models.Session
	Objects  []engine.Object
	Items    []engine.ResultItem
	Warnings []engine.AggregationWarning
	Ballots  int
}

// Results loads the current snapshot and ranks it. It neither waits for
// outstanding experts nor blocks new submissions.
func (s *Service) Results(ctx context.Context, sessionID string) (Outcome, error) {
	start := time.Now()

	var (
		sess    models.Session
		objects []engine.Object
		ballots []engine.Ballot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sess, err = s.sessions.Get(gctx, sessionID)
		return err
	})
	g.Go(func() (err error) {
		objects, err = s.objects.ListBySession(gctx, sessionID)
		return err
	})
	g.Go(func() (err error) {
		ballots, err = s.ballots.ListBySession(gctx, sessionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Outcome{}, err
	}

	items, warnings, err := engine.Results(sess.Method, objects, ballots)
	if err != nil {
		return Outcome{}, err
	}

	// Objects are created after voting starts, so an empty object list is
	// normal early on and not worth a warning per object.
	if len(ballots) > 0 {
		for _, w := range warnings {
			slog.Warn("aggregation warning", "session_id", sessionID, "object_id", w.ObjectID, "message", w.Message)
		}
	}
	s.metrics.ResultsComputed(string(sess.Method), time.Since(start), len(warnings))

	return Outcome{
		Session:  sess,
		Objects:  objects,
		Items:    items,
		Warnings: warnings,
		Ballots:  len(ballots),
	}, nil
}

// Comparisons rebuilds the pairwise sheet for a session, applying any
// previously chosen winners by position.
func (s *Service) Comparisons(ctx context.Context, sessionID string, winners []string) ([]engine.Comparison, error) {
	objects, err := s.objects.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return engine.Resume(objects, winners), nil
}
