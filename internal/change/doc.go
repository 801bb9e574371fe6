// Package change solves the change-making problem. Solve finds a minimal
// coin decomposition by bottom-up tabulation with parent pointers, and
// SolveGreedy provides the largest-first heuristic it is compared against.
//
// Both solvers are pure functions of their inputs and safe for concurrent use.
package change
