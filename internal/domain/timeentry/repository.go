package timeentry

import (
	"context"
	"time"
)

// EntryRepository defines data access for time entries. Date parameters are
// organization-local "YYYY-MM-DD" keys.
type EntryRepository interface {
	// Create creates a new time entry.
	Create(ctx context.Context, entry Entry) (Entry, error)

	// GetByID retrieves an entry by ID.
	GetByID(ctx context.Context, id string) (Entry, error)

	// GetByEmployeeAndDate retrieves the employee's entry for the date, or
	// nil when none exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID, date string) (*Entry, error)

	// Update replaces a stored entry.
	Update(ctx context.Context, entry Entry) error

	// Delete removes an entry.
	Delete(ctx context.Context, id string) error

	// ListByDateRange retrieves entries with date keys in [from, to]. An
	// empty employeeIDs slice means all employees.
	ListByDateRange(ctx context.Context, from, to string, employeeIDs []string) ([]Entry, error)

	// ListOpenBefore retrieves entries still clocked in or on break whose
	// clock-in instant is before the cutoff. Used by the stale-entry sweep.
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]Entry, error)
}
