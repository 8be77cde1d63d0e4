package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/attendance"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/leave"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/report"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

// StandardDayHours is the fallback scheduled length for a completed entry
// with no linked shift.
const StandardDayHours = 8.0

type ReportServiceImpl struct {
	entries   timeentry.EntryRepository
	shifts    shift.ShiftRepository
	employees employee.EmployeeRepository
	leaves    leave.LeaveRepository
	lateness  lateness.LatenessRepository

	clock              timeutil.Clock
	policy             attendance.Policy
	loc                *time.Location
	overtimeMultiplier decimal.Decimal
}

func NewReportService(
	entries timeentry.EntryRepository,
	shifts shift.ShiftRepository,
	employees employee.EmployeeRepository,
	leaves leave.LeaveRepository,
	latenessRepo lateness.LatenessRepository,
	clock timeutil.Clock,
	policy attendance.Policy,
	loc *time.Location,
	overtimeMultiplier decimal.Decimal,
) report.ReportService {
	return &ReportServiceImpl{
		entries:            entries,
		shifts:             shifts,
		employees:          employees,
		leaves:             leaves,
		lateness:           latenessRepo,
		clock:              clock,
		policy:             policy,
		loc:                loc,
		overtimeMultiplier: overtimeMultiplier,
	}
}

// rangeData is the shared per-run snapshot every projection replays over.
type rangeData struct {
	from, to  time.Time
	fromKey   string
	toKey     string
	employees []employee.Employee
	shifts    []shift.Assignment

	// entries keyed by employeeID|dateKey, leave by employeeID.
	entries map[string]timeentry.Entry
	leaves  map[string][]leave.Request
}

func (d *rangeData) entryFor(employeeID, dateKey string) *timeentry.Entry {
	e, ok := d.entries[employeeID+"|"+dateKey]
	if !ok {
		return nil
	}
	return &e
}

func (d *rangeData) onLeave(employeeID string, date time.Time, loc *time.Location) bool {
	for _, r := range d.leaves[employeeID] {
		if r.Covers(date, loc) {
			return true
		}
	}
	return false
}

func (s *ReportServiceImpl) loadRange(ctx context.Context, req report.RangeRequest) (*rangeData, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, _ := validator.IsValidDate(req.StartDate)
	to, _ := validator.IsValidDate(req.EndDate)

	data := &rangeData{
		from:    from,
		to:      to,
		fromKey: req.StartDate,
		toKey:   req.EndDate,
		entries: make(map[string]timeentry.Entry),
		leaves:  make(map[string][]leave.Request),
	}

	if len(req.EmployeeIDs) > 0 {
		for _, id := range req.EmployeeIDs {
			emp, err := s.employees.GetByID(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to get employee: %w", err)
			}
			data.employees = append(data.employees, emp)
		}
	} else {
		emps, err := s.employees.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list employees: %w", err)
		}
		data.employees = emps
	}

	shifts, err := s.shifts.ListByDateRange(ctx, from, to, req.EmployeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	data.shifts = shifts

	entries, err := s.entries.ListByDateRange(ctx, req.StartDate, req.EndDate, req.EmployeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	for _, e := range entries {
		data.entries[e.EmployeeID+"|"+e.Date] = e
	}

	leaves, err := s.leaves.ListApprovedInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	for _, r := range leaves {
		data.leaves[r.EmployeeID] = append(data.leaves[r.EmployeeID], r)
	}

	// Historical summaries must cover employees who left after the reporting
	// period, so the active-employee default is widened to anyone with a shift
	// or entry in range.
	if len(req.EmployeeIDs) == 0 {
		if err := s.addEmployeesWithRecords(ctx, data); err != nil {
			return nil, err
		}
	}

	return data, nil
}

func (s *ReportServiceImpl) addEmployeesWithRecords(ctx context.Context, data *rangeData) error {
	known := make(map[string]bool, len(data.employees))
	for _, emp := range data.employees {
		known[emp.ID] = true
	}

	var referenced []string
	for _, sh := range data.shifts {
		referenced = append(referenced, sh.EmployeeID)
	}
	for _, e := range data.entries {
		referenced = append(referenced, e.EmployeeID)
	}

	for _, id := range referenced {
		if known[id] {
			continue
		}
		known[id] = true

		emp, err := s.employees.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				slog.Warn("range data references unknown employee, skipping",
					"employee_id", id)
				continue
			}
			return fmt.Errorf("failed to get employee: %w", err)
		}
		data.employees = append(data.employees, emp)
	}
	return nil
}

// classifyShift replays the canonical classifier for one shift, pulling the
// matching entry's clock-in when one exists.
func (s *ReportServiceImpl) classifyShift(d *rangeData, sh shift.Assignment, now time.Time) attendance.Verdict {
	dateKey := sh.Date.Format(timeutil.DateLayout)

	var clockIn *time.Time
	if entry := d.entryFor(sh.EmployeeID, dateKey); entry != nil {
		ci := entry.ClockIn
		clockIn = &ci
	}

	return attendance.Classify(&sh, clockIn, now, s.onLeaveFor(d, sh), s.policy, s.loc)
}

func (s *ReportServiceImpl) onLeaveFor(d *rangeData, sh shift.Assignment) bool {
	return d.onLeave(sh.EmployeeID, sh.Date, s.loc)
}

// LatenessReport implements report.ReportService.
func (s *ReportServiceImpl) LatenessReport(ctx context.Context, req report.RangeRequest) (report.LatenessReport, error) {
	data, err := s.loadRange(ctx, req)
	if err != nil {
		return report.LatenessReport{}, err
	}
	now := s.clock.Now()

	recorded := make(map[string]bool)
	records, err := s.lateness.ListByDateRange(ctx, data.fromKey, data.toKey, req.EmployeeIDs)
	if err != nil {
		return report.LatenessReport{}, fmt.Errorf("failed to list lateness records: %w", err)
	}
	for _, r := range records {
		recorded[r.EmployeeID+"|"+r.Date] = true
	}

	type tally struct {
		days    int
		minutes int
	}
	tallies := make(map[string]*tally)
	var unrecorded []report.UnrecordedLateClockIn
	var unschedulable []report.UnschedulableShift

	for _, sh := range data.shifts {
		if !sh.Status.Expected() {
			continue
		}
		verdict := s.classifyShift(data, sh, now)
		dateKey := sh.Date.Format(timeutil.DateLayout)

		switch verdict.Status {
		case attendance.StatusLate:
			t, ok := tallies[sh.EmployeeID]
			if !ok {
				t = &tally{}
				tallies[sh.EmployeeID] = t
			}
			t.days++
			t.minutes += verdict.MinutesLate
		case attendance.StatusUnschedulable:
			unschedulable = append(unschedulable, report.UnschedulableShift{
				ShiftID:    sh.ID,
				EmployeeID: sh.EmployeeID,
				Date:       dateKey,
				Reason:     verdict.Reason,
			})
			continue
		}

		// Backfill check: a clock-in past the grace period with no live
		// lateness record. Grace-period lateness and Late classification are
		// distinct thresholds, so this is reported separately from the
		// summaries above.
		if verdict.MinutesLate > s.policy.LatenessGraceMinutes && !recorded[sh.EmployeeID+"|"+dateKey] {
			unrecorded = append(unrecorded, report.UnrecordedLateClockIn{
				EmployeeID:  sh.EmployeeID,
				Date:        dateKey,
				MinutesLate: verdict.MinutesLate,
			})
		}
	}

	out := report.LatenessReport{
		StartDate:              data.fromKey,
		EndDate:                data.toKey,
		GeneratedAt:            now.Format(time.RFC3339),
		Employees:              []report.EmployeeLatenessSummary{},
		UnrecordedLateClockIns: unrecorded,
		UnschedulableShifts:    unschedulable,
	}
	for _, emp := range data.employees {
		t, ok := tallies[emp.ID]
		if !ok {
			continue
		}
		out.Employees = append(out.Employees, report.EmployeeLatenessSummary{
			EmployeeID:         emp.ID,
			EmployeeName:       emp.FullName,
			LateDays:           t.days,
			TotalMinutesLate:   t.minutes,
			AverageMinutesLate: timeutil.Round2(float64(t.minutes) / float64(t.days)),
		})
	}
	return out, nil
}

// OvertimeReport implements report.ReportService. Overtime is derived only
// from completed entries; cost math runs in decimal so payroll figures don't
// accumulate float error.
func (s *ReportServiceImpl) OvertimeReport(ctx context.Context, req report.RangeRequest) (report.OvertimeReport, error) {
	data, err := s.loadRange(ctx, req)
	if err != nil {
		return report.OvertimeReport{}, err
	}
	now := s.clock.Now()

	rates := make(map[string]decimal.Decimal, len(data.employees))
	names := make(map[string]string, len(data.employees))
	for _, emp := range data.employees {
		rates[emp.ID] = emp.HourlyRate
		names[emp.ID] = emp.FullName
	}

	type tally struct {
		hours     float64
		instances int
	}
	tallies := make(map[string]*tally)

	for _, e := range data.entries {
		if e.Status != timeentry.StatusClockedOut || e.HoursWorked == nil {
			continue
		}
		if _, known := rates[e.EmployeeID]; !known {
			continue
		}

		scheduled := StandardDayHours
		if e.ShiftAssignmentID != nil && e.ScheduledHours != nil {
			scheduled = *e.ScheduledHours
		}
		overtime := *e.HoursWorked - scheduled
		if overtime <= 0 {
			continue
		}

		t, ok := tallies[e.EmployeeID]
		if !ok {
			t = &tally{}
			tallies[e.EmployeeID] = t
		}
		t.hours += overtime
		t.instances++
	}

	out := report.OvertimeReport{
		StartDate:   data.fromKey,
		EndDate:     data.toKey,
		GeneratedAt: now.Format(time.RFC3339),
		Employees:   []report.EmployeeOvertimeSummary{},
	}
	totalCost := decimal.Zero
	for _, emp := range data.employees {
		t, ok := tallies[emp.ID]
		if !ok {
			continue
		}
		hours := timeutil.Round2(t.hours)
		cost := decimal.NewFromFloat(hours).
			Mul(rates[emp.ID]).
			Mul(s.overtimeMultiplier).
			Round(2)
		out.Employees = append(out.Employees, report.EmployeeOvertimeSummary{
			EmployeeID:    emp.ID,
			EmployeeName:  names[emp.ID],
			OvertimeHours: hours,
			Instances:     t.instances,
			Cost:          cost.StringFixed(2),
		})
		out.TotalOvertimeHours = timeutil.Round2(out.TotalOvertimeHours + hours)
		totalCost = totalCost.Add(cost)
	}
	out.TotalCost = totalCost.StringFixed(2)
	return out, nil
}

// AbsenceReport implements report.ReportService. Approved leave suppresses
// absence inside Classify, so leave-covered shifts never count here.
func (s *ReportServiceImpl) AbsenceReport(ctx context.Context, req report.RangeRequest) (report.AbsenceReport, error) {
	data, err := s.loadRange(ctx, req)
	if err != nil {
		return report.AbsenceReport{}, err
	}
	now := s.clock.Now()

	absences := make(map[string][]string)
	var unschedulable []report.UnschedulableShift

	for _, sh := range data.shifts {
		if !sh.Status.Expected() {
			continue
		}
		verdict := s.classifyShift(data, sh, now)
		dateKey := sh.Date.Format(timeutil.DateLayout)

		switch verdict.Status {
		case attendance.StatusAbsent:
			absences[sh.EmployeeID] = append(absences[sh.EmployeeID], dateKey)
		case attendance.StatusUnschedulable:
			unschedulable = append(unschedulable, report.UnschedulableShift{
				ShiftID:    sh.ID,
				EmployeeID: sh.EmployeeID,
				Date:       dateKey,
				Reason:     verdict.Reason,
			})
		}
	}

	out := report.AbsenceReport{
		StartDate:           data.fromKey,
		EndDate:             data.toKey,
		GeneratedAt:         now.Format(time.RFC3339),
		Employees:           []report.EmployeeAbsenceSummary{},
		UnschedulableShifts: unschedulable,
	}
	for _, emp := range data.employees {
		dates, ok := absences[emp.ID]
		if !ok {
			continue
		}
		out.Employees = append(out.Employees, report.EmployeeAbsenceSummary{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			AbsentDays:   len(dates),
			Dates:        dates,
		})
	}
	return out, nil
}
