package employee

import "context"

// EmployeeRepository defines the data access the attendance core needs from
// the employee collection.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves all active employees.
	ListActive(ctx context.Context) ([]Employee, error)
}
