package change

import (
	"errors"
	"slices"
	"testing"
)

func TestCompare(t *testing.T) {
	t.Parallel()

	cmp, err := Compare([]int{25, 10, 1, 10}, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []int{1, 10, 25}; !slices.Equal(cmp.Denominations, want) {
		t.Fatalf("expected denominations %v, got %v", want, cmp.Denominations)
	}
	if cmp.Optimal.Count != 3 {
		t.Fatalf("expected optimal count 3, got %d", cmp.Optimal.Count)
	}
	if cmp.Greedy.Count != 6 {
		t.Fatalf("expected greedy count 6, got %d", cmp.Greedy.Count)
	}
	if !cmp.GreedyExact() {
		t.Fatalf("expected greedy to pay the full target")
	}
	if !cmp.GreedySuboptimal() {
		t.Fatalf("expected greedy to be flagged suboptimal")
	}
}

func TestCompare_GreedyMatchesOptimum(t *testing.T) {
	t.Parallel()

	cmp, err := Compare([]int{1, 5, 10, 25}, 41)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.GreedySuboptimal() {
		t.Fatalf("expected greedy to match optimum, got %+v", cmp)
	}
}

func TestCompare_InexactGreedyIsSuboptimal(t *testing.T) {
	t.Parallel()

	cmp, err := Compare([]int{3, 4}, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.GreedyExact() {
		t.Fatalf("expected greedy to leave a remainder, got %+v", cmp.Greedy)
	}
	if !cmp.GreedySuboptimal() {
		t.Fatalf("expected inexact greedy to be flagged suboptimal")
	}
}

func TestCompare_PropagatesSolverErrors(t *testing.T) {
	t.Parallel()

	if _, err := Compare([]int{5}, 3); !errors.Is(err, ErrNoSolution) {
		t.Fatalf("expected ErrNoSolution, got %v", err)
	}
	if _, err := Compare([]int{0, 5}, 10); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
