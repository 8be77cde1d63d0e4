package shift

import (
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

type CreateAssignmentRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Location   string `json:"location"`
	WorkType   string `json:"work_type"`
}

func (r *CreateAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if _, err := timeutil.ParseWallClock(r.StartTime); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time must be in 24-hour HH:MM format",
		})
	}

	if _, err := timeutil.ParseWallClock(r.EndTime); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time must be in 24-hour HH:MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignmentResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    *string `json:"employee_name,omitempty"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	ScheduledHours  float64 `json:"scheduled_hours"`
	Location        string  `json:"location"`
	WorkType        string  `json:"work_type,omitempty"`
	Status          string  `json:"status"`
	TimeEntryID     *string `json:"time_entry_id,omitempty"`
	ActualStartTime *string `json:"actual_start_time,omitempty"`
	ActualEndTime   *string `json:"actual_end_time,omitempty"`
}

type MatchResponse struct {
	Found            bool                `json:"found"`
	LocationMismatch bool                `json:"location_mismatch,omitempty"`
	Assignment       *AssignmentResponse `json:"assignment,omitempty"`
}

// NewAssignmentResponse maps an Assignment to its API shape. Scheduled hours
// are recomputed through the time window calculator; a malformed stored time
// yields 0 rather than a guess (the classifier reports such assignments as
// Unschedulable).
func NewAssignmentResponse(a Assignment) AssignmentResponse {
	hours, err := timeutil.ScheduledHours(a.StartTime, a.EndTime)
	if err != nil {
		hours = 0
	}

	resp := AssignmentResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		EmployeeName:   a.EmployeeName,
		Date:           a.Date.Format(timeutil.DateLayout),
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		ScheduledHours: hours,
		Location:       a.Location,
		WorkType:       a.WorkType,
		Status:         string(a.Status),
		TimeEntryID:    a.TimeEntryID,
	}
	resp.ActualStartTime = formatInstant(a.ActualStartTime)
	resp.ActualEndTime = formatInstant(a.ActualEndTime)
	return resp
}

func formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
