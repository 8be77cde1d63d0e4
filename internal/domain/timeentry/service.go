package timeentry

import (
	"context"
	"time"
)

// EntryService is the time-entry/shift reconciler: every live clock event and
// every administrative correction for one (employee, date) attendance record
// goes through it. Implementations serialize concurrent operations on the
// same employee/date pair.
type EntryService interface {
	// ClockIn opens the day's entry, links the matched shift (if any) and
	// records a lateness side effect when past the grace period.
	ClockIn(ctx context.Context, req ClockInRequest) (EntryResponse, error)

	// StartBreak pauses an open entry.
	StartBreak(ctx context.Context, req BreakRequest) (EntryResponse, error)

	// ResumeWork closes the open break and returns the entry to clocked-in.
	ResumeWork(ctx context.Context, req BreakRequest) (EntryResponse, error)

	// ClockOut closes the entry, computing hours worked and variance. An open
	// break is closed first so its time is never lost.
	ClockOut(ctx context.Context, req ClockOutRequest) (EntryResponse, error)

	// ForceReset closes an open entry at the current instant (admin).
	// Idempotent on an already closed entry.
	ForceReset(ctx context.Context, req ForceResetRequest) (ResetResult, error)

	// DeleteEntry removes an entry and resets its linked shift (admin).
	DeleteEntry(ctx context.Context, entryID string) error

	// ManualEntry creates or overwrites a day's entry from supplied times
	// (admin). Derived numbers are recomputed, never taken from the caller.
	ManualEntry(ctx context.Context, req ManualEntryRequest) (EntryResponse, error)

	// GetEntry retrieves an entry by ID.
	GetEntry(ctx context.Context, entryID string) (EntryResponse, error)

	// GetDayStatus classifies an employee's attendance for a date as of now.
	GetDayStatus(ctx context.Context, employeeID string, date time.Time) (DayStatusResponse, error)
}
