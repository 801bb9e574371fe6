package change

import "errors"

var (
	// ErrInvalidInput is returned when the target is negative or the denomination set is empty or holds a non-positive value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoSolution is returned when no combination of denominations sums exactly to the target.
	ErrNoSolution = errors.New("no combination of denominations makes the target")
	// ErrReconstructionFailure is returned when the parent table does not lead back to zero.
	// It signals a defect in table construction, never bad input.
	ErrReconstructionFailure = errors.New("reconstruction failed: parent pointer missing")
)
