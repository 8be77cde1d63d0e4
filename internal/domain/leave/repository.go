package leave

import (
	"context"
	"time"
)

// LeaveRepository exposes the approved-leave lookups the attendance core
// needs. Leave always wins over shift/attendance evaluation, so both the live
// reconciler and the report projections consult it.
type LeaveRepository interface {
	// HasApprovedLeave reports whether an approved leave request covers the
	// employee on the given date.
	HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// ListApprovedInRange retrieves approved leave requests overlapping the
	// date range, for batch report runs.
	ListApprovedInRange(ctx context.Context, from, to time.Time) ([]Request, error)
}
