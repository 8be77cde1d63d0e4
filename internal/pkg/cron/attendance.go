package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/attendance"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/leave"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/notification"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
)

// AttendanceJobs holds the periodic reconciliation sweeps: no-shows become
// Missed shifts, forgotten clock-outs get closed, and shift/entry link drift
// left behind by partial best-effort writes is repaired.
type AttendanceJobs struct {
	shiftRepo       shift.ShiftRepository
	entryRepo       timeentry.EntryRepository
	leaveRepo       leave.LeaveRepository
	entryService    timeentry.EntryService
	notificationSvc notification.Service

	clock  timeutil.Clock
	policy attendance.Policy
	loc    *time.Location

	staleEntryMaxAge time.Duration
}

func NewAttendanceJobs(
	shiftRepo shift.ShiftRepository,
	entryRepo timeentry.EntryRepository,
	leaveRepo leave.LeaveRepository,
	entryService timeentry.EntryService,
	notificationSvc notification.Service,
	clock timeutil.Clock,
	policy attendance.Policy,
	loc *time.Location,
	staleEntryMaxAge time.Duration,
) *AttendanceJobs {
	return &AttendanceJobs{
		shiftRepo:        shiftRepo,
		entryRepo:        entryRepo,
		leaveRepo:        leaveRepo,
		entryService:     entryService,
		notificationSvc:  notificationSvc,
		clock:            clock,
		policy:           policy,
		loc:              loc,
		staleEntryMaxAge: staleEntryMaxAge,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
	scheduler.AddJob("close_stale_entries", 1*time.Hour, j.CloseStaleEntries)
	scheduler.AddJob("reconcile_shift_drift", 6*time.Hour, j.ReconcileShiftDrift)
}

// MarkAbsentEmployees moves no-show shifts past the absence cutoff to
// Missed. Approved leave suppresses the transition, matching the classifier.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	now := j.clock.Now()

	// Yesterday too, so overnight shifts and late sweeps are covered.
	from := now.In(j.loc).AddDate(0, 0, -1)
	shifts, err := j.shiftRepo.ListByDateRange(ctx, from, now.In(j.loc), nil)
	if err != nil {
		return fmt.Errorf("failed to list shift assignments: %w", err)
	}

	marked := 0
	for _, sh := range shifts {
		if sh.Status != shift.StatusScheduled {
			continue
		}

		dateKey := sh.Date.Format(timeutil.DateLayout)
		entry, err := j.entryRepo.GetByEmployeeAndDate(ctx, sh.EmployeeID, dateKey)
		if err != nil {
			slog.Error("Cron: failed to look up time entry", "employee_id", sh.EmployeeID, "date", dateKey, "error", err)
			continue
		}
		if entry != nil {
			continue
		}

		onLeave, err := j.leaveRepo.HasApprovedLeave(ctx, sh.EmployeeID, sh.Date)
		if err != nil {
			slog.Error("Cron: failed to check leave", "employee_id", sh.EmployeeID, "date", dateKey, "error", err)
			continue
		}

		verdict := attendance.Classify(&sh, nil, now, onLeave, j.policy, j.loc)
		if verdict.Status != attendance.StatusAbsent {
			continue
		}

		if err := j.shiftRepo.UpdateEntryLink(ctx, sh.ID, shift.StatusMissed, nil, nil, nil); err != nil {
			slog.Error("Cron: failed to mark shift missed", "shift_id", sh.ID, "error", err)
			continue
		}
		marked++

		_ = j.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
			RecipientID: sh.EmployeeID,
			Type:        notification.TypeMarkedAbsent,
			Title:       "Marked absent",
			Message:     fmt.Sprintf("No clock-in was recorded for your %s shift on %s.", sh.StartTime, dateKey),
			Data:        map[string]interface{}{"shift_id": sh.ID, "date": dateKey},
		})
	}

	if marked > 0 {
		slog.Info("Cron: marked no-show shifts as missed", "count", marked)
	}
	return nil
}

// CloseStaleEntries force-closes entries left open past the stale age,
// typically forgotten clock-outs.
func (j *AttendanceJobs) CloseStaleEntries(ctx context.Context) error {
	cutoff := j.clock.Now().Add(-j.staleEntryMaxAge)

	stale, err := j.entryRepo.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to list stale entries: %w", err)
	}

	closed := 0
	for _, e := range stale {
		result, err := j.entryService.ForceReset(ctx, timeentry.ForceResetRequest{
			EmployeeID: e.EmployeeID,
			Date:       e.Date,
		})
		if err != nil {
			slog.Error("Cron: failed to close stale entry", "entry_id", e.ID, "error", err)
			continue
		}
		if result.Reset {
			closed++
			_ = j.notificationSvc.QueueNotification(ctx, notification.CreateNotificationRequest{
				RecipientID: e.EmployeeID,
				Type:        notification.TypeEntryAutoClosed,
				Title:       "Entry auto-closed",
				Message:     fmt.Sprintf("Your open time entry for %s was closed automatically.", e.Date),
				Data:        map[string]interface{}{"entry_id": e.ID, "date": e.Date},
			})
		}
	}

	if closed > 0 {
		slog.Info("Cron: auto-closed stale entries", "count", closed)
	}
	return nil
}

// ReconcileShiftDrift repairs shift/entry links left inconsistent by failed
// best-effort writes: shifts pointing at deleted entries are reset, and
// shifts still In Progress after their entry closed are completed.
func (j *AttendanceJobs) ReconcileShiftDrift(ctx context.Context) error {
	now := j.clock.Now().In(j.loc)
	from := now.AddDate(0, 0, -7)

	shifts, err := j.shiftRepo.ListByDateRange(ctx, from, now, nil)
	if err != nil {
		return fmt.Errorf("failed to list shift assignments: %w", err)
	}

	repaired := 0
	for _, sh := range shifts {
		if sh.TimeEntryID == nil {
			continue
		}

		entry, err := j.entryRepo.GetByID(ctx, *sh.TimeEntryID)
		if err != nil {
			// Entry is gone: the deletion rollback never landed.
			if err := j.shiftRepo.UpdateEntryLink(ctx, sh.ID, shift.StatusScheduled, nil, nil, nil); err != nil {
				slog.Error("Cron: failed to reset orphaned shift link", "shift_id", sh.ID, "error", err)
				continue
			}
			repaired++
			continue
		}

		if entry.Status == timeentry.StatusClockedOut && sh.Status == shift.StatusInProgress {
			clockIn := entry.ClockIn
			if err := j.shiftRepo.UpdateEntryLink(ctx, sh.ID, shift.StatusCompleted, &entry.ID, &clockIn, entry.ClockOut); err != nil {
				slog.Error("Cron: failed to complete drifted shift", "shift_id", sh.ID, "error", err)
				continue
			}
			repaired++
		}
	}

	if repaired > 0 {
		slog.Info("Cron: repaired drifted shift links", "count", repaired)
	}
	return nil
}
