package application

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/eugenenazirov/change-maker/internal/bench"
	"github.com/eugenenazirov/change-maker/internal/change"
	"github.com/eugenenazirov/change-maker/internal/config"
	"github.com/eugenenazirov/change-maker/internal/report"
)

// RunSolve compares the greedy and DP decompositions of cfg.Target and
// writes the report to w. When withBenchmark is set the DP benchmark
// follows the report.
func RunSolve(ctx context.Context, w io.Writer, cfg config.Config, logger *zap.Logger, withBenchmark bool) error {
	cmp, err := change.Compare(cfg.Coins, cfg.Target)
	if err != nil {
		return fmt.Errorf("solve target %d: %w", cfg.Target, err)
	}
	logger.Debug("solved",
		zap.Int("target", cmp.Target),
		zap.Int("optimal_count", cmp.Optimal.Count),
		zap.Int("greedy_count", cmp.Greedy.Count),
		zap.Bool("greedy_suboptimal", cmp.GreedySuboptimal()),
	)

	if err := report.WriteComparison(w, cmp); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if !withBenchmark {
		return nil
	}
	return RunBenchmark(ctx, w, cfg, logger)
}

// RunBenchmark times the DP solver on cfg.BenchTarget and writes the summary to w.
func RunBenchmark(ctx context.Context, w io.Writer, cfg config.Config, logger *zap.Logger) error {
	stats, err := bench.Run(ctx, change.New(), cfg.Coins, cfg.BenchTarget, cfg.BenchReps)
	if err != nil {
		return fmt.Errorf("benchmark target %d: %w", cfg.BenchTarget, err)
	}
	logger.Debug("benchmark finished",
		zap.Int("target", stats.Target),
		zap.Int("reps", stats.Reps),
		zap.Duration("avg", stats.Avg),
	)

	if err := report.WriteBenchmark(w, stats); err != nil {
		return fmt.Errorf("write benchmark: %w", err)
	}
	return nil
}
