package timeentry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/attendance"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/leave"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/notification"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

// EntryServiceImpl is the time-entry/shift reconciler. The TimeEntry is the
// source of truth: shift-status sync, lateness record creation and
// notifications are owned side steps whose failure is logged, never allowed
// to fail or roll back the entry mutation.
type EntryServiceImpl struct {
	entries      timeentry.EntryRepository
	employees    employee.EmployeeRepository
	leaves       leave.LeaveRepository
	shifts       shift.ShiftRepository
	matcher      shift.Matcher
	latenessRepo lateness.LatenessRepository
	notifier     notification.Service

	clock  timeutil.Clock
	policy attendance.Policy
	loc    *time.Location

	locks *keyedLocks
}

func NewEntryService(
	entries timeentry.EntryRepository,
	employees employee.EmployeeRepository,
	leaves leave.LeaveRepository,
	shifts shift.ShiftRepository,
	matcher shift.Matcher,
	latenessRepo lateness.LatenessRepository,
	notifier notification.Service,
	clock timeutil.Clock,
	policy attendance.Policy,
	loc *time.Location,
) timeentry.EntryService {
	return &EntryServiceImpl{
		entries:      entries,
		employees:    employees,
		leaves:       leaves,
		shifts:       shifts,
		matcher:      matcher,
		latenessRepo: latenessRepo,
		notifier:     notifier,
		clock:        clock,
		policy:       policy,
		loc:          loc,
		locks:        newKeyedLocks(),
	}
}

func lockKey(employeeID, date string) string {
	return employeeID + "|" + date
}

// ClockIn implements timeentry.EntryService.
func (s *EntryServiceImpl) ClockIn(ctx context.Context, req timeentry.ClockInRequest) (timeentry.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	now := s.clock.Now()
	date := timeutil.DateKey(now, s.loc)

	release := s.locks.acquire(lockKey(req.EmployeeID, date))
	defer release()

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return timeentry.EntryResponse{}, employee.ErrEmployeeNotFound
		}
		return timeentry.EntryResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.Active() {
		return timeentry.EntryResponse{}, timeentry.ErrEmployeeInactive
	}

	existing, err := s.entries.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to check existing entry: %w", err)
	}
	if existing != nil {
		if existing.Status.Open() {
			return timeentry.EntryResponse{}, timeentry.ErrAlreadyActive
		}
		// One session per date: a second clock-in after a clock-out is
		// rejected; admins correct the day via manual entry.
		return timeentry.EntryResponse{}, timeentry.ErrAlreadyCompleted
	}

	// Absence of a shift is not an error; the day is simply unscheduled.
	match, err := s.matcher.FindShift(ctx, req.EmployeeID, now.In(s.loc), req.Location)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to match shift: %w", err)
	}

	entry := timeentry.Entry{
		EmployeeID: req.EmployeeID,
		Date:       date,
		ClockIn:    now,
		Status:     timeentry.StatusClockedIn,
		Location:   req.Location,
		WorkType:   req.WorkType,
	}
	if req.Latitude != nil && req.Longitude != nil {
		entry.ClockInLocation = &timeentry.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	var matched *shift.Assignment
	if match != nil {
		matched = &match.Assignment
		entry.ShiftAssignmentID = &matched.ID
		if hours, err := timeutil.ScheduledHours(matched.StartTime, matched.EndTime); err == nil {
			entry.ScheduledHours = &hours
		} else {
			slog.Warn("shift has unparseable times, scheduled hours unset",
				"shift_id", matched.ID, "error", err)
		}
	}

	verdict := attendance.Classify(matched, &now, now, s.onApprovedLeave(ctx, req.EmployeeID, now), s.policy, s.loc)
	entry.AttendanceStatus = string(verdict.Status)

	// The buffered wall-clock verdict is what the employee sees; the strict
	// daily classification above is what the entry carries.
	var clockInVerdict *timeutil.ClockInResult
	if matched != nil {
		if v, err := timeutil.ClassifyClockIn(now.In(s.loc).Format("15:04"), matched.StartTime, s.policy.OnTimeBufferMinutes); err == nil {
			clockInVerdict = &v
		} else {
			slog.Warn("shift has unparseable start time, clock-in verdict unset",
				"shift_id", matched.ID, "error", err)
		}
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	if matched != nil {
		s.syncShift(ctx, created, shift.StatusInProgress)
		s.recordLateness(ctx, created, *matched, now)
	}

	shown := string(verdict.Status)
	if clockInVerdict != nil {
		shown = string(clockInVerdict.Status)
	}
	s.notify(ctx, req.EmployeeID, notification.TypeClockIn, "Clocked In",
		fmt.Sprintf("Clock-in recorded at %s (%s)", now.In(s.loc).Format("15:04"), shown),
		map[string]interface{}{"entry_id": created.ID, "date": date})

	resp := timeentry.NewEntryResponse(created)
	if match != nil {
		resp.LocationMismatch = match.LocationMismatch
	}
	if clockInVerdict != nil {
		resp.ClockInVerdict = string(clockInVerdict.Status)
		resp.ClockInOffsetMinutes = clockInVerdict.MinutesOffset
	}
	return resp, nil
}

// StartBreak implements timeentry.EntryService.
func (s *EntryServiceImpl) StartBreak(ctx context.Context, req timeentry.BreakRequest) (timeentry.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	now := s.clock.Now()
	date := timeutil.DateKey(now, s.loc)

	release := s.locks.acquire(lockKey(req.EmployeeID, date))
	defer release()

	entry, err := s.entries.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	if entry == nil || entry.Status != timeentry.StatusClockedIn {
		return timeentry.EntryResponse{}, timeentry.ErrNotClockedIn
	}

	entry.Status = timeentry.StatusOnBreak
	entry.OnBreakStart = &now

	if err := s.entries.Update(ctx, *entry); err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to update time entry: %w", err)
	}

	s.syncShift(ctx, *entry, shift.StatusOnBreak)

	return timeentry.NewEntryResponse(*entry), nil
}

// ResumeWork implements timeentry.EntryService.
func (s *EntryServiceImpl) ResumeWork(ctx context.Context, req timeentry.BreakRequest) (timeentry.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	now := s.clock.Now()
	date := timeutil.DateKey(now, s.loc)

	release := s.locks.acquire(lockKey(req.EmployeeID, date))
	defer release()

	entry, err := s.entries.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	if entry == nil || entry.Status != timeentry.StatusOnBreak {
		return timeentry.EntryResponse{}, timeentry.ErrNotOnBreak
	}

	closeOpenBreak(entry, now, req.Category)
	entry.Status = timeentry.StatusClockedIn

	if err := s.entries.Update(ctx, *entry); err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to update time entry: %w", err)
	}

	s.syncShift(ctx, *entry, shift.StatusInProgress)

	return timeentry.NewEntryResponse(*entry), nil
}

// ClockOut implements timeentry.EntryService.
func (s *EntryServiceImpl) ClockOut(ctx context.Context, req timeentry.ClockOutRequest) (timeentry.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	now := s.clock.Now()
	date := timeutil.DateKey(now, s.loc)

	release := s.locks.acquire(lockKey(req.EmployeeID, date))
	defer release()

	entry, err := s.entries.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	if entry == nil || !entry.Status.Open() {
		return timeentry.EntryResponse{}, timeentry.ErrNoActiveEntry
	}

	if req.Latitude != nil && req.Longitude != nil {
		entry.ClockOutLocation = &timeentry.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	if err := s.closeEntry(ctx, entry, now); err != nil {
		return timeentry.EntryResponse{}, err
	}

	s.notify(ctx, req.EmployeeID, notification.TypeClockOut, "Clocked Out",
		fmt.Sprintf("Clock-out recorded at %s", now.In(s.loc).Format("15:04")),
		map[string]interface{}{"entry_id": entry.ID, "date": date})

	return timeentry.NewEntryResponse(*entry), nil
}

// ForceReset implements timeentry.EntryService. Identical accounting to
// ClockOut at the current instant; closing an already closed entry is a
// no-op.
func (s *EntryServiceImpl) ForceReset(ctx context.Context, req timeentry.ForceResetRequest) (timeentry.ResetResult, error) {
	if err := req.Validate(); err != nil {
		return timeentry.ResetResult{}, err
	}

	now := s.clock.Now()

	release := s.locks.acquire(lockKey(req.EmployeeID, req.Date))
	defer release()

	entry, err := s.entries.GetByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
	if err != nil {
		return timeentry.ResetResult{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	if entry == nil {
		return timeentry.ResetResult{}, timeentry.ErrNoActiveEntry
	}
	if entry.Status == timeentry.StatusClockedOut {
		resp := timeentry.NewEntryResponse(*entry)
		return timeentry.ResetResult{Reset: false, Message: "nothing to reset", Entry: &resp}, nil
	}

	if err := s.closeEntry(ctx, entry, now); err != nil {
		return timeentry.ResetResult{}, err
	}

	s.notify(ctx, req.EmployeeID, notification.TypeEntryForceClosed, "Time Entry Closed",
		fmt.Sprintf("Your time entry for %s was closed by an administrator", req.Date),
		map[string]interface{}{"entry_id": entry.ID, "date": req.Date})

	resp := timeentry.NewEntryResponse(*entry)
	return timeentry.ResetResult{Reset: true, Message: "entry closed", Entry: &resp}, nil
}

// DeleteEntry implements timeentry.EntryService. The only operation with a
// cross-entity rollback: a linked shift goes back to Scheduled with its
// actual times and entry reference cleared.
func (s *EntryServiceImpl) DeleteEntry(ctx context.Context, entryID string) error {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, timeentry.ErrEntryNotFound) {
			return timeentry.ErrEntryNotFound
		}
		return fmt.Errorf("failed to get time entry: %w", err)
	}

	release := s.locks.acquire(lockKey(entry.EmployeeID, entry.Date))
	defer release()

	if err := s.entries.Delete(ctx, entryID); err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}

	if entry.ShiftAssignmentID != nil {
		if err := s.shifts.UpdateEntryLink(ctx, *entry.ShiftAssignmentID, shift.StatusScheduled, nil, nil, nil); err != nil {
			// The entry deletion stands; the drift sweep repairs the shift.
			slog.Error("failed to reset shift after entry deletion",
				"shift_id", *entry.ShiftAssignmentID, "entry_id", entryID, "error", err)
		}
	}

	return nil
}

// ManualEntry implements timeentry.EntryService. Live-state preconditions are
// bypassed, but derived numbers still go through the time window calculator;
// a manual entry may not carry inconsistent hours.
func (s *EntryServiceImpl) ManualEntry(ctx context.Context, req timeentry.ManualEntryRequest) (timeentry.EntryResponse, error) {
	if err := req.Validate(); err != nil {
		return timeentry.EntryResponse{}, err
	}

	clockIn, _ := validator.IsValidDateTime(req.ClockIn)
	var clockOut *time.Time
	if req.ClockOut != nil {
		t, _ := validator.IsValidDateTime(*req.ClockOut)
		if t.Before(clockIn) {
			return timeentry.EntryResponse{}, timeutil.ErrInvalidInterval
		}
		clockOut = &t
	}

	var breaks []timeentry.Break
	for _, b := range req.Breaks {
		start, _ := validator.IsValidDateTime(b.Start)
		end, _ := validator.IsValidDateTime(b.End)
		if end.Before(start) {
			return timeentry.EntryResponse{}, timeutil.ErrInvalidInterval
		}
		breaks = append(breaks, timeentry.Break{
			Start:           start,
			End:             end,
			DurationMinutes: int(end.Sub(start).Minutes()),
			Category:        b.Category,
		})
	}

	release := s.locks.acquire(lockKey(req.EmployeeID, req.Date))
	defer release()

	day, _ := validator.IsValidDate(req.Date)

	entry := timeentry.Entry{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		ClockIn:    clockIn,
		ClockOut:   clockOut,
		Breaks:     breaks,
		Status:     timeentry.StatusClockedIn,
	}

	existing, err := s.entries.GetByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to check existing entry: %w", err)
	}
	if existing != nil {
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	}

	match, err := s.matcher.FindShift(ctx, req.EmployeeID, day, "")
	if err != nil {
		return timeentry.EntryResponse{}, fmt.Errorf("failed to match shift: %w", err)
	}

	var matched *shift.Assignment
	if match != nil {
		matched = &match.Assignment
		entry.ShiftAssignmentID = &matched.ID
		if hours, err := timeutil.ScheduledHours(matched.StartTime, matched.EndTime); err == nil {
			entry.ScheduledHours = &hours
		}
	}

	if clockOut != nil {
		entry.Status = timeentry.StatusClockedOut
		hours, err := timeutil.HoursWorked(clockIn, *clockOut, entry.BreakMinutes())
		if err != nil {
			return timeentry.EntryResponse{}, err
		}
		entry.HoursWorked = &hours
		variance := computeVariance(hours, entry.ScheduledHours)
		entry.Variance = &variance
	}

	verdict := attendance.Classify(matched, &clockIn, s.clock.Now(), s.onApprovedLeave(ctx, req.EmployeeID, day), s.policy, s.loc)
	entry.AttendanceStatus = string(verdict.Status)

	if existing != nil {
		if err := s.entries.Update(ctx, entry); err != nil {
			return timeentry.EntryResponse{}, fmt.Errorf("failed to update time entry: %w", err)
		}
	} else {
		entry, err = s.entries.Create(ctx, entry)
		if err != nil {
			return timeentry.EntryResponse{}, fmt.Errorf("failed to create time entry: %w", err)
		}
	}

	if matched != nil {
		status := shift.StatusInProgress
		if clockOut != nil {
			status = shift.StatusCompleted
		}
		s.syncShift(ctx, entry, status)
	}

	return timeentry.NewEntryResponse(entry), nil
}

// GetEntry implements timeentry.EntryService.
func (s *EntryServiceImpl) GetEntry(ctx context.Context, entryID string) (timeentry.EntryResponse, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, timeentry.ErrEntryNotFound) {
			return timeentry.EntryResponse{}, timeentry.ErrEntryNotFound
		}
		return timeentry.EntryResponse{}, fmt.Errorf("failed to get time entry: %w", err)
	}
	return timeentry.NewEntryResponse(entry), nil
}

// GetDayStatus implements timeentry.EntryService: the read-side
// classification used by dashboards, consistent by construction with the
// report projections because both call attendance.Classify.
func (s *EntryServiceImpl) GetDayStatus(ctx context.Context, employeeID string, date time.Time) (timeentry.DayStatusResponse, error) {
	dateKey := timeutil.DateKey(date, s.loc)

	match, err := s.matcher.FindShift(ctx, employeeID, date, "")
	if err != nil {
		return timeentry.DayStatusResponse{}, fmt.Errorf("failed to match shift: %w", err)
	}

	entry, err := s.entries.GetByEmployeeAndDate(ctx, employeeID, dateKey)
	if err != nil {
		return timeentry.DayStatusResponse{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	var matched *shift.Assignment
	if match != nil {
		matched = &match.Assignment
	}
	var clockIn *time.Time
	if entry != nil {
		clockIn = &entry.ClockIn
	}

	onLeave, err := s.leaves.HasApprovedLeave(ctx, employeeID, date)
	if err != nil {
		return timeentry.DayStatusResponse{}, fmt.Errorf("failed to check leave: %w", err)
	}

	verdict := attendance.Classify(matched, clockIn, s.clock.Now(), onLeave, s.policy, s.loc)

	resp := timeentry.DayStatusResponse{
		EmployeeID:       employeeID,
		Date:             dateKey,
		Status:           string(verdict.Status),
		MinutesLate:      verdict.MinutesLate,
		RequiresApproval: verdict.RequiresApproval,
		Reason:           verdict.Reason,
	}
	if matched != nil {
		resp.ShiftID = &matched.ID
	}
	if entry != nil {
		resp.EntryID = &entry.ID
	}
	return resp, nil
}

// closeEntry performs the shared clock-out accounting: an open break is
// closed first so break time is never lost, then hours worked and variance
// are derived through the calculator.
func (s *EntryServiceImpl) closeEntry(ctx context.Context, entry *timeentry.Entry, now time.Time) error {
	if entry.Status == timeentry.StatusOnBreak {
		closeOpenBreak(entry, now, "")
	}

	entry.ClockOut = &now
	entry.Status = timeentry.StatusClockedOut

	hours, err := timeutil.HoursWorked(entry.ClockIn, now, entry.BreakMinutes())
	if err != nil {
		return err
	}
	entry.HoursWorked = &hours
	variance := computeVariance(hours, entry.ScheduledHours)
	entry.Variance = &variance

	if err := s.entries.Update(ctx, *entry); err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}

	s.syncShift(ctx, *entry, shift.StatusCompleted)
	return nil
}

func closeOpenBreak(entry *timeentry.Entry, now time.Time, category string) {
	if entry.OnBreakStart == nil {
		return
	}
	start := *entry.OnBreakStart
	entry.Breaks = append(entry.Breaks, timeentry.Break{
		Start:           start,
		End:             now,
		DurationMinutes: int(now.Sub(start).Minutes()),
		Category:        category,
	})
	entry.OnBreakStart = nil
}

func computeVariance(hoursWorked float64, scheduledHours *float64) float64 {
	var scheduled float64
	if scheduledHours != nil {
		scheduled = *scheduledHours
	}
	return timeutil.Round2(hoursWorked - scheduled)
}

// syncShift mirrors the entry's state onto its linked shift assignment.
// Best-effort: the entry is the source of truth and a scheduling-side write
// failure must never block attendance recording.
func (s *EntryServiceImpl) syncShift(ctx context.Context, entry timeentry.Entry, status shift.Status) {
	if entry.ShiftAssignmentID == nil {
		return
	}
	actualStart := entry.ClockIn
	if err := s.shifts.UpdateEntryLink(ctx, *entry.ShiftAssignmentID, status, &entry.ID, &actualStart, entry.ClockOut); err != nil {
		slog.Error("failed to sync shift assignment status",
			"shift_id", *entry.ShiftAssignmentID, "entry_id", entry.ID,
			"status", status, "error", err)
	}
}

// recordLateness creates the lateness audit record when the clock-in lands
// beyond the grace period. At most one record per employee/date; failures are
// logged, never propagated.
func (s *EntryServiceImpl) recordLateness(ctx context.Context, entry timeentry.Entry, sh shift.Assignment, now time.Time) {
	start, err := timeutil.CombineDate(sh.Date, sh.StartTime, s.loc)
	if err != nil {
		slog.Warn("skipping lateness check for shift with malformed start time",
			"shift_id", sh.ID, "error", err)
		return
	}

	minutesLate := int(now.Sub(start).Minutes())
	if minutesLate <= s.policy.LatenessGraceMinutes {
		return
	}

	exists, err := s.latenessRepo.ExistsForEmployeeAndDate(ctx, entry.EmployeeID, entry.Date)
	if err != nil {
		slog.Error("failed to check for existing lateness record",
			"employee_id", entry.EmployeeID, "date", entry.Date, "error", err)
		return
	}
	if exists {
		return
	}

	record := lateness.Record{
		EmployeeID:        entry.EmployeeID,
		Date:              entry.Date,
		ScheduledStart:    start,
		ActualStart:       now,
		MinutesLate:       minutesLate,
		ShiftAssignmentID: &sh.ID,
		RecordedBy:        entry.EmployeeID,
		RecordedByRole:    "employee",
	}
	if _, err := s.latenessRepo.Create(ctx, record); err != nil {
		slog.Error("failed to create lateness record",
			"employee_id", entry.EmployeeID, "date", entry.Date, "error", err)
		return
	}

	s.notify(ctx, entry.EmployeeID, notification.TypeLateArrival, "Late Arrival Recorded",
		fmt.Sprintf("You clocked in %d minutes after your scheduled start", minutesLate),
		map[string]interface{}{"date": entry.Date, "minutes_late": minutesLate})
}

func (s *EntryServiceImpl) onApprovedLeave(ctx context.Context, employeeID string, date time.Time) bool {
	onLeave, err := s.leaves.HasApprovedLeave(ctx, employeeID, date)
	if err != nil {
		slog.Warn("failed to check approved leave, assuming none",
			"employee_id", employeeID, "error", err)
		return false
	}
	return onLeave
}

func (s *EntryServiceImpl) notify(ctx context.Context, recipientID string, typ notification.Type, title, message string, data map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.QueueNotification(ctx, notification.CreateNotificationRequest{
		RecipientID: recipientID,
		Type:        typ,
		Title:       title,
		Message:     message,
		Data:        data,
	})
}
