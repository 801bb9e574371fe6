package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/eugenenazirov/change-maker/internal/bench"
	"github.com/eugenenazirov/change-maker/internal/change"
)

func TestWriteComparison(t *testing.T) {
	cmp, err := change.Compare([]int{25, 10, 1}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteComparison(&buf, cmp); err != nil {
		t.Fatalf("WriteComparison returned error: %v", err)
	}

	want := strings.Join([]string{
		"Coins: [1, 10, 25]",
		"Target V: 30",
		strings.Repeat("-", 48),
		"Greedy (Largest First): count=6, coins=[25, 1, 1, 1, 1, 1]",
		"DP Optimal:             count=3, coins=[10, 10, 10]",
		"",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteComparisonShowsGreedyRemainder(t *testing.T) {
	cmp, err := change.Compare([]int{4, 3}, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteComparison(&buf, cmp); err != nil {
		t.Fatalf("WriteComparison returned error: %v", err)
	}

	if !strings.Contains(buf.String(), "count=1, coins=[4], remainder=2") {
		t.Fatalf("expected greedy remainder in report, got:\n%s", buf.String())
	}
}

func TestWriteBenchmark(t *testing.T) {
	stats := bench.Stats{
		Target: 10_000,
		Reps:   7,
		Avg:    1500 * time.Microsecond,
		Min:    time.Millisecond,
		Max:    2 * time.Millisecond,
	}

	var buf bytes.Buffer
	if err := WriteBenchmark(&buf, stats); err != nil {
		t.Fatalf("WriteBenchmark returned error: %v", err)
	}

	want := "DP benchmark for V=10000 (reps=7)\navg=0.001500s  min=0.001000s  max=0.002000s\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestFormatCoinsEmpty(t *testing.T) {
	if got := formatCoins(nil); got != "[]" {
		t.Fatalf("expected [], got %s", got)
	}
}
