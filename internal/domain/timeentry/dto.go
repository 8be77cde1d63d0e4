package timeentry

import (
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

// ========================================
// CLOCK EVENT DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID string   `json:"employee_id"`
	Location   string   `json:"location,omitempty"`
	WorkType   string   `json:"work_type,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = append(errs, validateGeo(r.Latitude, r.Longitude)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakRequest struct {
	EmployeeID string `json:"employee_id"`
	Category   string `json:"category,omitempty"`
}

func (r *BreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClockOutRequest struct {
	EmployeeID string   `json:"employee_id"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	errs = append(errs, validateGeo(r.Latitude, r.Longitude)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateGeo(lat, lng *float64) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if lat != nil && (*lat < -90 || *lat > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}
	return errs
}

// ========================================
// ADMINISTRATIVE DTOs
// ========================================

type ForceResetRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
}

func (r *ForceResetRequest) Validate() error {
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

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ManualBreak struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Category string `json:"category,omitempty"`
}

type ManualEntryRequest struct {
	EmployeeID string        `json:"employee_id"`
	Date       string        `json:"date"`
	ClockIn    string        `json:"clock_in"`
	ClockOut   *string       `json:"clock_out,omitempty"`
	Breaks     []ManualBreak `json:"breaks,omitempty"`
}

func (r *ManualEntryRequest) Validate() error {
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

	if _, ok := validator.IsValidDateTime(r.ClockIn); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in",
			Message: "clock_in must be an ISO8601 timestamp",
		})
	}

	if r.ClockOut != nil {
		if _, ok := validator.IsValidDateTime(*r.ClockOut); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_out",
				Message: "clock_out must be an ISO8601 timestamp",
			})
		}
	}

	for _, b := range r.Breaks {
		if _, ok := validator.IsValidDateTime(b.Start); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break start must be an ISO8601 timestamp",
			})
			break
		}
		if _, ok := validator.IsValidDateTime(b.End); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "breaks",
				Message: "break end must be an ISO8601 timestamp",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSES
// ========================================

type BreakResponse struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"duration_minutes"`
	Category        string `json:"category,omitempty"`
}

type EntryResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Date              string          `json:"date"`
	ClockIn           string          `json:"clock_in"`
	ClockOut          *string         `json:"clock_out,omitempty"`
	Breaks            []BreakResponse `json:"breaks,omitempty"`
	OnBreakStart      *string         `json:"on_break_start,omitempty"`
	Status            string          `json:"status"`
	HoursWorked       *float64        `json:"hours_worked,omitempty"`
	ScheduledHours    *float64        `json:"scheduled_hours,omitempty"`
	Variance          *float64        `json:"variance,omitempty"`
	AttendanceStatus  string          `json:"attendance_status,omitempty"`
	ShiftAssignmentID *string         `json:"shift_assignment_id,omitempty"`
	LocationMismatch  bool            `json:"location_mismatch,omitempty"`

	// Employee-facing clock-in verdict, buffered by the on-time tolerance.
	// Distinct from AttendanceStatus, which is the strict daily
	// classification.
	ClockInVerdict       string `json:"clock_in_verdict,omitempty"`
	ClockInOffsetMinutes int    `json:"clock_in_offset_minutes,omitempty"`
}

// ResetResult reports the outcome of a force reset. Reset is false when the
// entry was already clocked out and nothing changed.
type ResetResult struct {
	Reset   bool           `json:"reset"`
	Message string         `json:"message"`
	Entry   *EntryResponse `json:"entry,omitempty"`
}

// DayStatusResponse is the read-side attendance classification for one
// employee/date.
type DayStatusResponse struct {
	EmployeeID       string  `json:"employee_id"`
	Date             string  `json:"date"`
	Status           string  `json:"status"`
	MinutesLate      int     `json:"minutes_late,omitempty"`
	RequiresApproval bool    `json:"requires_approval,omitempty"`
	Reason           string  `json:"reason,omitempty"`
	ShiftID          *string `json:"shift_id,omitempty"`
	EntryID          *string `json:"entry_id,omitempty"`
}

// NewEntryResponse maps an Entry to its API shape.
func NewEntryResponse(e Entry) EntryResponse {
	resp := EntryResponse{
		ID:                e.ID,
		EmployeeID:        e.EmployeeID,
		Date:              e.Date,
		ClockIn:           e.ClockIn.Format(time.RFC3339),
		Status:            string(e.Status),
		HoursWorked:       e.HoursWorked,
		ScheduledHours:    e.ScheduledHours,
		Variance:          e.Variance,
		AttendanceStatus:  e.AttendanceStatus,
		ShiftAssignmentID: e.ShiftAssignmentID,
	}
	if e.ClockOut != nil {
		s := e.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &s
	}
	if e.OnBreakStart != nil {
		s := e.OnBreakStart.Format(time.RFC3339)
		resp.OnBreakStart = &s
	}
	for _, b := range e.Breaks {
		resp.Breaks = append(resp.Breaks, BreakResponse{
			Start:           b.Start.Format(time.RFC3339),
			End:             b.End.Format(time.RFC3339),
			DurationMinutes: b.DurationMinutes,
			Category:        b.Category,
		})
	}
	return resp
}
