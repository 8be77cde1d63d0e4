package shift

import "time"

// Assignment is a single employee's scheduled work period on one calendar
// date. StartTime/EndTime are 24-hour "HH:MM" wall-clock strings local to the
// organization's operating timezone; an EndTime numerically at or before
// StartTime denotes an overnight shift ending the next calendar day.
type Assignment struct {
	ID         string
	EmployeeID string
	Date       time.Time
	StartTime  string
	EndTime    string
	Location   string
	WorkType   string
	Status     Status

	// Reconciliation linkage, maintained by the time-entry reconciler.
	TimeEntryID     *string
	ActualStartTime *time.Time
	ActualEndTime   *time.Time

	SwapRequest *SwapRequest

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "In Progress"
	StatusOnBreak    Status = "On Break"
	StatusCompleted  Status = "Completed"
	StatusMissed     Status = "Missed"
	StatusCancelled  Status = "Cancelled"
	StatusSwapped    Status = "Swapped"
)

// Active reports whether the assignment still participates in live
// reconciliation. Completed/Missed/Cancelled/Swapped are terminal.
func (s Status) Active() bool {
	return s == StatusScheduled || s == StatusInProgress || s == StatusOnBreak
}

// Matchable reports whether a new clock-in may attach to an assignment in this
// status.
func (s Status) Matchable() bool {
	return s == StatusScheduled || s == StatusInProgress
}

// Expected reports whether the employee is expected to work the assignment.
// Cancelled and Swapped shifts carry no attendance obligation.
func (s Status) Expected() bool {
	return s != StatusCancelled && s != StatusSwapped
}

type SwapRequest struct {
	RequestedBy      string
	TargetEmployeeID string
	Status           string
	RequestedAt      time.Time
}

// Match is the shift matcher's result: the chosen assignment plus a flag set
// when the caller asked for a location the chosen assignment doesn't have.
type Match struct {
	Assignment       Assignment
	LocationMismatch bool
}
