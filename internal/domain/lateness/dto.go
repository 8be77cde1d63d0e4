package lateness

import (
	"context"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

type ExcuseRequest struct {
	ID        string `json:"-"`
	ExcusedBy string `json:"-"`
	Reason    string `json:"reason"`
}

func (r *ExcuseRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "an excuse reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	EmployeeID string
	StartDate  string
	EndDate    string
}

type RecordResponse struct {
	ID                string  `json:"id"`
	EmployeeID        string  `json:"employee_id"`
	EmployeeName      *string `json:"employee_name,omitempty"`
	Date              string  `json:"date"`
	ScheduledStart    string  `json:"scheduled_start"`
	ActualStart       string  `json:"actual_start"`
	MinutesLate       int     `json:"minutes_late"`
	ShiftAssignmentID *string `json:"shift_assignment_id,omitempty"`
	Excused           bool    `json:"excused"`
	ExcusedBy         *string `json:"excused_by,omitempty"`
	ExcuseReason      *string `json:"excuse_reason,omitempty"`
	ExcusedAt         *string `json:"excused_at,omitempty"`
}

// LatenessService exposes the read and excusal operations on lateness
// records. Records are created only by the reconciler.
type LatenessService interface {
	List(ctx context.Context, filter ListFilter) ([]RecordResponse, error)
	Excuse(ctx context.Context, req ExcuseRequest) (RecordResponse, error)
}

// NewRecordResponse maps a Record to its API shape.
func NewRecordResponse(r Record) RecordResponse {
	resp := RecordResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		EmployeeName:      r.EmployeeName,
		Date:              r.Date,
		ScheduledStart:    r.ScheduledStart.Format(time.RFC3339),
		ActualStart:       r.ActualStart.Format(time.RFC3339),
		MinutesLate:       r.MinutesLate,
		ShiftAssignmentID: r.ShiftAssignmentID,
		Excused:           r.Excused,
		ExcusedBy:         r.ExcusedBy,
		ExcuseReason:      r.ExcuseReason,
	}
	if r.ExcusedAt != nil {
		s := r.ExcusedAt.Format(time.RFC3339)
		resp.ExcusedAt = &s
	}
	return resp
}
