package change

import "sort"

type greedySolver struct{}

// NewGreedy creates a Solver backed by the largest-first heuristic. Its Solve
// never returns an error; inexact decompositions carry a non-zero Remainder.
func NewGreedy() Solver {
	return &greedySolver{}
}

func (s *greedySolver) Solve(coins []int, target int) (Result, error) {
	return SolveGreedy(coins, target), nil
}

// SolveGreedy repeatedly takes the largest denomination not exceeding the
// remaining value. It is optimal only for canonical coin systems.
//
// The result is best-effort: when the denominations cannot bring the
// remaining value to zero, the coins taken so far are returned and
// Remainder holds what is left. Non-positive denominations are ignored.
func SolveGreedy(coins []int, target int) Result {
	sorted := make([]int, len(coins))
	copy(sorted, coins)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	used := make([]int, 0)
	remaining := target
	for _, c := range sorted {
		if c <= 0 {
			break
		}
		for c <= remaining {
			used = append(used, c)
			remaining -= c
		}
	}

	return Result{
		Count:     len(used),
		Coins:     used,
		Remainder: remaining,
	}
}
