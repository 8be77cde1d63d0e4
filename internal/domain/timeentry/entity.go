package timeentry

import "time"

// Entry is one employee's attendance record for one calendar date: a single
// clock-in/clock-out pair plus any number of break intervals. A second
// clock-in after a clock-out on the same date is rejected; administrators
// correct a day through manual entry instead.
type Entry struct {
	ID         string
	EmployeeID string

	// Date is the organization-local calendar date key, "YYYY-MM-DD".
	Date string

	ClockIn  time.Time
	ClockOut *time.Time

	Breaks []Break

	// OnBreakStart marks an open break. Set exactly when Status is OnBreak.
	OnBreakStart *time.Time

	Status Status

	// Derived fields, computed only through the time window calculator.
	HoursWorked      *float64
	ScheduledHours   *float64
	Variance         *float64
	AttendanceStatus string

	ClockInLocation  *GeoPoint
	ClockOutLocation *GeoPoint

	Location string
	WorkType string

	ShiftAssignmentID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Status string

const (
	StatusClockedIn  Status = "clocked_in"
	StatusOnBreak    Status = "on_break"
	StatusClockedOut Status = "clocked_out"
)

// Open reports whether the entry still accepts clock events.
func (s Status) Open() bool {
	return s == StatusClockedIn || s == StatusOnBreak
}

// Break is one closed break interval inside an entry. Tagged for jsonb
// storage.
type Break struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
	Category        string    `json:"category,omitempty"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BreakMinutes returns the closed break durations, for the hours-worked
// calculation.
func (e Entry) BreakMinutes() []int {
	mins := make([]int, 0, len(e.Breaks))
	for _, b := range e.Breaks {
		mins = append(mins, b.DurationMinutes)
	}
	return mins
}
