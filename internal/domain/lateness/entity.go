package lateness

import "time"

// Record is an immutable-after-creation audit entry produced when a clock-in
// lands beyond the lateness grace period. MinutesLate is computed once at
// creation and never recomputed, even if the shift is later edited. The only
// permitted transition afterwards is excusal.
type Record struct {
	ID         string
	EmployeeID string

	// Date is the organization-local calendar date key, "YYYY-MM-DD".
	Date string

	ScheduledStart time.Time
	ActualStart    time.Time
	MinutesLate    int

	ShiftAssignmentID *string

	Excused      bool
	ExcusedBy    *string
	ExcuseReason *string
	ExcusedAt    *time.Time

	RecordedBy     string
	RecordedByRole string

	CreatedAt time.Time

	// DTO
	EmployeeName *string
}
