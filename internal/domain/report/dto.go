package report

import (
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

// RangeRequest selects a date range and an optional employee population for a
// report run. Dates are organization-local "YYYY-MM-DD"; an empty EmployeeIDs
// slice means all active employees.
type RangeRequest struct {
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

func (r *RangeRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// LATENESS REPORT
// ========================================

type LatenessReport struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	GeneratedAt string `json:"generated_at"`

	Employees []EmployeeLatenessSummary `json:"employees"`

	// UnrecordedLateClockIns surfaces clock-ins past the grace period that
	// have no lateness record yet: a backfill check between the live
	// grace-period side effect and the retrospective classification. The two
	// computations are exposed side by side, never silently merged.
	UnrecordedLateClockIns []UnrecordedLateClockIn `json:"unrecorded_late_clock_ins,omitempty"`

	UnschedulableShifts []UnschedulableShift `json:"unschedulable_shifts,omitempty"`
}

type EmployeeLatenessSummary struct {
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       string  `json:"employee_name"`
	LateDays           int     `json:"late_days"`
	TotalMinutesLate   int     `json:"total_minutes_late"`
	AverageMinutesLate float64 `json:"average_minutes_late"`
}

type UnrecordedLateClockIn struct {
	EmployeeID  string `json:"employee_id"`
	Date        string `json:"date"`
	MinutesLate int    `json:"minutes_late"`
}

// ========================================
// OVERTIME REPORT
// ========================================

type OvertimeReport struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	GeneratedAt string `json:"generated_at"`

	Employees []EmployeeOvertimeSummary `json:"employees"`

	TotalOvertimeHours float64 `json:"total_overtime_hours"`
	TotalCost          string  `json:"total_cost"`
}

type EmployeeOvertimeSummary struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	OvertimeHours float64 `json:"overtime_hours"`
	Instances     int     `json:"instances"`
	Cost          string  `json:"cost"`
}

// ========================================
// ABSENCE REPORT
// ========================================

type AbsenceReport struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	GeneratedAt string `json:"generated_at"`

	Employees []EmployeeAbsenceSummary `json:"employees"`

	UnschedulableShifts []UnschedulableShift `json:"unschedulable_shifts,omitempty"`
}

type EmployeeAbsenceSummary struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	AbsentDays   int      `json:"absent_days"`
	Dates        []string `json:"dates"`
}

// UnschedulableShift flags a shift whose stored times could not be parsed
// during a report run; these are reported, never treated as on-time.
type UnschedulableShift struct {
	ShiftID    string `json:"shift_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Reason     string `json:"reason"`
}
