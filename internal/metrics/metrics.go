// Package metrics exposes Prometheus collectors for solver activity.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/change-maker/internal/change"
)

const namespace = "coinchange"

// Outcome labels.
const (
	OutcomeOK             = "ok"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeNoSolution     = "no_solution"
	OutcomeReconstruction = "reconstruction_failure"
	OutcomeInexact        = "inexact"
	OutcomeError          = "error"
)

// Metrics groups the collectors recorded for each comparison.
type Metrics struct {
	gatherer         prometheus.Gatherer
	solves           *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	greedySuboptimal prometheus.Counter
}

// New registers the solver collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Solver invocations by solver and outcome.",
		}, []string{"solver", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall-clock duration of a comparison.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"solver"}),
		greedySuboptimal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "greedy_suboptimal_total",
			Help:      "Comparisons where the greedy heuristic missed the optimum.",
		}),
	}
	reg.MustRegister(m.solves, m.duration, m.greedySuboptimal)
	return m
}

// Observe records one comparison. When err is non-nil only the DP outcome is
// recorded, because the greedy solver is not run for rejected input.
func (m *Metrics) Observe(cmp change.Comparison, err error, elapsed time.Duration) {
	m.duration.WithLabelValues("dp").Observe(elapsed.Seconds())
	if err != nil {
		m.solves.WithLabelValues("dp", outcome(err)).Inc()
		return
	}

	m.solves.WithLabelValues("dp", OutcomeOK).Inc()
	if cmp.GreedyExact() {
		m.solves.WithLabelValues("greedy", OutcomeOK).Inc()
	} else {
		m.solves.WithLabelValues("greedy", OutcomeInexact).Inc()
	}
	if cmp.GreedySuboptimal() {
		m.greedySuboptimal.Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	switch {
	case errors.Is(err, change.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, change.ErrNoSolution):
		return OutcomeNoSolution
	case errors.Is(err, change.ErrReconstructionFailure):
		return OutcomeReconstruction
	default:
		return OutcomeError
	}
}
