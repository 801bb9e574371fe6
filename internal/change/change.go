package change

import (
	"fmt"
	"sort"
)

const none = -1

// MaxTarget is the largest target Solve accepts. Both tables hold target+1
// entries, so the limit bounds memory and keeps target+1 from overflowing.
const MaxTarget = 10_000_000

type dpSolver struct{}

// New creates a Solver that returns a minimal coin decomposition using dynamic programming.
func New() Solver {
	return &dpSolver{}
}

func (s *dpSolver) Solve(coins []int, target int) (Result, error) {
	return Solve(coins, target)
}

// Solve returns the minimum number of coins summing to target, together with
// one optimal multiset of coins. Coins are listed in the order they are
// recovered while walking the parent table from target down to zero.
//
// Runs in O(target * len(coins)) time and O(target) space.
func Solve(coins []int, target int) (Result, error) {
	if target < 0 {
		return Result{}, fmt.Errorf("target must be non-negative, got %d: %w", target, ErrInvalidInput)
	}
	if target > MaxTarget {
		return Result{}, fmt.Errorf("target must not exceed %d, got %d: %w", MaxTarget, target, ErrInvalidInput)
	}
	normalized, err := NormalizeDenominations(coins)
	if err != nil {
		return Result{}, err
	}

	opt, parent := tabulate(normalized, target)
	if opt[target] > target {
		return Result{}, fmt.Errorf("target %d with coins %v: %w", target, normalized, ErrNoSolution)
	}

	used, err := reconstruct(parent, target)
	if err != nil {
		return Result{}, err
	}

	return Result{Count: opt[target], Coins: used}, nil
}

// tabulate fills the optimal-count and parent tables for every value up to target.
// Unreachable values keep opt = target+1, which exceeds any achievable count.
func tabulate(coins []int, target int) ([]int, []int) {
	opt := make([]int, target+1)
	parent := make([]int, target+1)
	unreachable := target + 1

	for v := 1; v <= target; v++ {
		opt[v] = unreachable
		parent[v] = none
	}

	for v := 1; v <= target; v++ {
		for _, c := range coins {
			if c > v {
				break
			}
			prev := opt[v-c]
			if prev == unreachable {
				continue
			}
			if prev+1 < opt[v] {
				opt[v] = prev + 1
				parent[v] = c
			}
		}
	}

	return opt, parent
}

func reconstruct(parent []int, target int) ([]int, error) {
	used := make([]int, 0)
	for cur := target; cur > 0; {
		c := parent[cur]
		if c == none || c <= 0 {
			return nil, fmt.Errorf("at value %d of %d: %w", cur, target, ErrReconstructionFailure)
		}
		used = append(used, c)
		cur -= c
	}
	return used, nil
}

// NormalizeDenominations validates the denomination set and returns a sorted,
// deduplicated copy of it.
func NormalizeDenominations(coins []int) ([]int, error) {
	if len(coins) == 0 {
		return nil, fmt.Errorf("denomination set is empty: %w", ErrInvalidInput)
	}

	unique := make(map[int]struct{}, len(coins))
	for _, c := range coins {
		if c <= 0 {
			return nil, fmt.Errorf("denominations must be positive, got %d: %w", c, ErrInvalidInput)
		}
		unique[c] = struct{}{}
	}

	normalized := make([]int, 0, len(unique))
	for c := range unique {
		normalized = append(normalized, c)
	}
	sort.Ints(normalized)

	return normalized, nil
}
