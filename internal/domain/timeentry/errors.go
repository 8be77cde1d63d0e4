package timeentry

import "errors"

// Time-entry domain errors. All are precondition failures detected before any
// mutation; an operation that returns one has written nothing.
var (
	// Clock event errors
	ErrAlreadyActive    = errors.New("an active time entry already exists for this date")
	ErrAlreadyCompleted = errors.New("the time entry for this date is already clocked out")
	ErrNotClockedIn     = errors.New("not clocked in")
	ErrNotOnBreak       = errors.New("not on break")
	ErrNoActiveEntry    = errors.New("no active time entry for this date")
	ErrEmployeeInactive = errors.New("employee is not active")

	// General errors
	ErrEntryNotFound = errors.New("time entry not found")
)
