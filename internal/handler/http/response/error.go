package response

import (
	"errors"
	"net/http"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Time-entry state machine violations
	case errors.Is(err, timeentry.ErrAlreadyActive):
		Conflict(w, "An active time entry already exists for this date")
	case errors.Is(err, timeentry.ErrAlreadyCompleted):
		Conflict(w, "The time entry for this date is already completed")
	case errors.Is(err, timeentry.ErrNotClockedIn):
		Conflict(w, "Employee is not clocked in")
	case errors.Is(err, timeentry.ErrNotOnBreak):
		Conflict(w, "Employee is not on break")
	case errors.Is(err, timeentry.ErrNoActiveEntry):
		Conflict(w, "No active time entry for this date")
	case errors.Is(err, timeentry.ErrEntryNotFound):
		NotFound(w, "Time entry not found")

	// Time window violations
	case errors.Is(err, timeutil.ErrMalformedTime):
		BadRequest(w, "Malformed wall-clock time", nil)
	case errors.Is(err, timeutil.ErrInvalidInterval):
		BadRequest(w, "Clock-out must not precede clock-in", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive),
		errors.Is(err, timeentry.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")

	// Shift domain errors
	case errors.Is(err, shift.ErrAssignmentNotFound):
		NotFound(w, "Shift assignment not found")
	case errors.Is(err, shift.ErrAssignmentFinished):
		Conflict(w, "Shift assignment is already finished")

	// Lateness domain errors
	case errors.Is(err, lateness.ErrRecordNotFound):
		NotFound(w, "Lateness record not found")
	case errors.Is(err, lateness.ErrAlreadyExcused):
		Conflict(w, "Lateness record is already excused")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
