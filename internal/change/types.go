package change

// Result is one decomposition of a target value into coins.
// Remainder is the part of the target left unpaid; the DP solver only
// returns exact decompositions, so it is non-zero for greedy results only.
type Result struct {
	Count     int
	Coins     []int
	Remainder int
}

// Sum returns the total value of the coins in the result.
func (r Result) Sum() int {
	total := 0
	for _, c := range r.Coins {
		total += c
	}
	return total
}

// Exact reports whether the coins add up to the full target.
func (r Result) Exact() bool {
	return r.Remainder == 0
}

// Solver describes the behaviour required from a change-making strategy.
type Solver interface {
	Solve(coins []int, target int) (Result, error)
}
