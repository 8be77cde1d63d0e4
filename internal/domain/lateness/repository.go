package lateness

import "context"

// LatenessRepository defines data access for lateness audit records.
type LatenessRepository interface {
	// Create creates a new lateness record.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID retrieves a record by ID.
	GetByID(ctx context.Context, id string) (Record, error)

	// ExistsForEmployeeAndDate reports whether a record already exists for
	// the employee/date pair. Used to guarantee at most one record per
	// clock-in event and by the report backfill check.
	ExistsForEmployeeAndDate(ctx context.Context, employeeID, date string) (bool, error)

	// ListByDateRange retrieves records with date keys in [from, to]. An
	// empty employeeIDs slice means all employees.
	ListByDateRange(ctx context.Context, from, to string, employeeIDs []string) ([]Record, error)

	// Update persists an excusal transition.
	Update(ctx context.Context, record Record) error
}
