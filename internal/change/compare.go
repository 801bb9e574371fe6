package change

// Comparison holds the optimal and greedy decompositions of one target.
type Comparison struct {
	Target        int
	Denominations []int
	Optimal       Result
	Greedy        Result
}

// GreedyExact reports whether the greedy heuristic paid the full target.
func (c Comparison) GreedyExact() bool {
	return c.Greedy.Exact()
}

// GreedySuboptimal reports whether greedy missed the optimum, either by
// failing to pay the target or by using more coins than the DP solution.
func (c Comparison) GreedySuboptimal() bool {
	return !c.Greedy.Exact() || c.Greedy.Count > c.Optimal.Count
}

// Compare solves target with both strategies. Errors come from the DP solver
// only, since the greedy heuristic has no failure mode.
func Compare(coins []int, target int) (Comparison, error) {
	optimal, err := Solve(coins, target)
	if err != nil {
		return Comparison{}, err
	}
	normalized, err := NormalizeDenominations(coins)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{
		Target:        target,
		Denominations: normalized,
		Optimal:       optimal,
		Greedy:        SolveGreedy(normalized, target),
	}, nil
}
