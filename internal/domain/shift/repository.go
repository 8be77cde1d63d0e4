package shift

import (
	"context"
	"time"
)

// ShiftRepository defines data access for shift assignments.
type ShiftRepository interface {
	// Create creates a new shift assignment.
	Create(ctx context.Context, assignment Assignment) (Assignment, error)

	// GetByID retrieves an assignment by ID.
	GetByID(ctx context.Context, id string) (Assignment, error)

	// ListMatchableByEmployeeAndDate retrieves the employee's assignments on
	// the given calendar date whose status still accepts a clock-in
	// (Scheduled or In Progress), ordered by start time then ID so the
	// matcher is deterministic.
	ListMatchableByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Assignment, error)

	// ListByDateRange retrieves assignments whose date falls within
	// [from, to]. An empty employeeIDs slice means all employees.
	ListByDateRange(ctx context.Context, from, to time.Time, employeeIDs []string) ([]Assignment, error)

	// Update replaces a stored assignment.
	Update(ctx context.Context, assignment Assignment) error

	// UpdateEntryLink patches only the reconciliation fields: lifecycle
	// status, linked time-entry ID, and actual start/end instants. Passing
	// nil pointers clears the corresponding fields.
	UpdateEntryLink(ctx context.Context, id string, status Status, timeEntryID *string, actualStart, actualEnd *time.Time) error

	// Delete removes an assignment.
	Delete(ctx context.Context, id string) error
}
