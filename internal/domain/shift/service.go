package shift

import (
	"context"
	"time"
)

// Matcher locates the single applicable shift assignment for an employee on a
// calendar date. A nil result with a nil error means no qualifying assignment
// exists; callers treat that as an unscheduled day, not a failure.
type Matcher interface {
	FindShift(ctx context.Context, employeeID string, date time.Time, preferredLocation string) (*Match, error)
}

// ShiftService defines scheduling operations exposed to the HTTP layer.
type ShiftService interface {
	Matcher

	// CreateAssignment schedules a new shift.
	CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (AssignmentResponse, error)

	// GetAssignment retrieves a single assignment by ID.
	GetAssignment(ctx context.Context, id string) (AssignmentResponse, error)

	// ListAssignments retrieves assignments in a date range, optionally
	// restricted to one employee.
	ListAssignments(ctx context.Context, from, to time.Time, employeeID string) ([]AssignmentResponse, error)

	// CancelAssignment moves an active assignment to Cancelled.
	CancelAssignment(ctx context.Context, id string) (AssignmentResponse, error)

	// DeleteAssignment removes an assignment; a linked time entry has its
	// shift reference cleared.
	DeleteAssignment(ctx context.Context, id string) error
}
