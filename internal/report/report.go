// Package report renders solver comparisons and benchmark statistics as
// console text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/eugenenazirov/change-maker/internal/bench"
	"github.com/eugenenazirov/change-maker/internal/change"
)

const separatorWidth = 48

// WriteComparison prints the greedy and optimal decompositions of one target.
func WriteComparison(w io.Writer, cmp change.Comparison) error {
	greedy := fmt.Sprintf("count=%d, coins=%s", cmp.Greedy.Count, formatCoins(cmp.Greedy.Coins))
	if !cmp.GreedyExact() {
		greedy += fmt.Sprintf(", remainder=%d", cmp.Greedy.Remainder)
	}

	lines := []string{
		"Coins: " + formatCoins(cmp.Denominations),
		fmt.Sprintf("Target V: %d", cmp.Target),
		strings.Repeat("-", separatorWidth),
		"Greedy (Largest First): " + greedy,
		fmt.Sprintf("DP Optimal:             count=%d, coins=%s", cmp.Optimal.Count, formatCoins(cmp.Optimal.Coins)),
		"",
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteBenchmark prints the aggregate timings of a benchmark run in seconds.
func WriteBenchmark(w io.Writer, stats bench.Stats) error {
	_, err := fmt.Fprintf(w, "DP benchmark for V=%d (reps=%d)\navg=%.6fs  min=%.6fs  max=%.6fs\n\n",
		stats.Target, stats.Reps,
		stats.Avg.Seconds(), stats.Min.Seconds(), stats.Max.Seconds(),
	)
	return err
}

func formatCoins(coins []int) string {
	parts := make([]string, len(coins))
	for i, c := range coins {
		parts[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
