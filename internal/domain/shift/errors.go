package shift

import "errors"

// Shift domain errors
var (
	ErrAssignmentNotFound = errors.New("shift assignment not found")
	ErrAssignmentFinished = errors.New("shift assignment is already in a terminal state")
)
