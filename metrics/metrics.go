// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for ballot capture and
// result computation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ballot submission outcomes
const (
	OutcomeAccepted = "accepted"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics owns its registry so several routers can coexist in one process.
type Metrics struct {
	registry           *prometheus.Registry
	ballotsSubmitted   *prometheus.CounterVec
	resultsComputed    *prometheus.CounterVec
	aggregationLatency *prometheus.HistogramVec
	warnings           *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ballotsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickly_rank_ballots_submitted_total",
				Help: "Ballot submissions by method and outcome.",
			},
			[]string{"method", "outcome"},
		),
		resultsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickly_rank_results_computed_total",
				Help: "Consensus computations by method.",
			},
			[]string{"method"},
		),
		aggregationLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quickly_rank_results_duration_seconds",
				Help:    "Time to load ballots and rank a session.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		warnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quickly_rank_aggregation_warnings_total",
				Help: "Non-fatal aggregation warnings, e.g. objects without votes.",
			},
			[]string{"method"},
		),
	}
}

// BallotSubmitted counts one submission attempt.
func (m *Metrics) BallotSubmitted(method, outcome string) {
	if m == nil {
		return
	}
	m.ballotsSubmitted.WithLabelValues(method, outcome).Inc()
}

// ResultsComputed records one result computation.
func (m *Metrics) ResultsComputed(method string, d time.Duration, warnings int) {
	if m == nil {
		return
	}
	m.resultsComputed.WithLabelValues(method).Inc()
	m.aggregationLatency.WithLabelValues(method).Observe(d.Seconds())
	if warnings > 0 {
		m.warnings.WithLabelValues(method).Add(float64(warnings))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
