// Package bench times repeated solver runs for a fixed target and reports
// aggregate statistics. It only observes; results of the solver are discarded.
package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/eugenenazirov/change-maker/internal/change"
)

const (
	// DefaultTarget is the value solved on every repetition when none is configured.
	DefaultTarget = 10_000
	// DefaultReps is the number of repetitions when none is configured.
	DefaultReps = 7
)

// Stats summarises the wall-clock durations of a benchmark run.
type Stats struct {
	Target  int
	Reps    int
	Samples []time.Duration
	Avg     time.Duration
	Min     time.Duration
	Max     time.Duration
}

// Option configures Run.
type Option func(*runner)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(r *runner) {
		r.clock = clock
	}
}

type runner struct {
	clock func() time.Time
}

// Run solves target with coins reps times and returns timing statistics.
// A non-positive reps falls back to DefaultReps. The first solver error
// aborts the run.
func Run(ctx context.Context, solver change.Solver, coins []int, target, reps int, opts ...Option) (Stats, error) {
	r := runner{clock: time.Now}
	for _, opt := range opts {
		opt(&r)
	}
	if reps <= 0 {
		reps = DefaultReps
	}

	samples := make([]time.Duration, 0, reps)
	for i := 0; i < reps; i++ {
		if err := ctx.Err(); err != nil {
			return Stats{}, fmt.Errorf("benchmark interrupted after %d reps: %w", i, err)
		}

		start := r.clock()
		if _, err := solver.Solve(coins, target); err != nil {
			return Stats{}, fmt.Errorf("benchmark rep %d: %w", i+1, err)
		}
		samples = append(samples, r.clock().Sub(start))
	}

	return summarize(target, samples), nil
}

func summarize(target int, samples []time.Duration) Stats {
	stats := Stats{
		Target:  target,
		Reps:    len(samples),
		Samples: samples,
	}
	if len(samples) == 0 {
		return stats
	}

	var total time.Duration
	stats.Min = samples[0]
	stats.Max = samples[0]
	for _, d := range samples {
		total += d
		if d < stats.Min {
			stats.Min = d
		}
		if d > stats.Max {
			stats.Max = d
		}
	}
	stats.Avg = total / time.Duration(len(samples))

	return stats
}
