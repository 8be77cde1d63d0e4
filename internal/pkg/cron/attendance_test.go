package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/attendance"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/leave"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/notification"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/repository/memory"
	shiftService "github.com/shiftwise-hq/shiftwise-backend/internal/service/shift"
	entryService "github.com/shiftwise-hq/shiftwise-backend/internal/service/timeentry"
)

type noopNotifier struct{}

func (noopNotifier) QueueNotification(context.Context, notification.CreateNotificationRequest) error {
	return nil
}
func (noopNotifier) Stop() {}

const sweepEmployeeID = "emp-sweep"

var (
	sweepDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	sweepNow = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
)

type sweepFixture struct {
	shifts  *memory.ShiftRepository
	entries *memory.EntryRepository
	leaves  *memory.LeaveRepository
	jobs    *AttendanceJobs
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()

	f := &sweepFixture{
		shifts:  memory.NewShiftRepository(),
		entries: memory.NewEntryRepository(),
		leaves:  memory.NewLeaveRepository(time.UTC),
	}
	employees := memory.NewEmployeeRepository()
	employees.Put(employee.Employee{
		ID:               sweepEmployeeID,
		FullName:         "Ines Fallon",
		EmploymentStatus: employee.StatusActive,
	})

	clock := timeutil.Fixed{T: sweepNow}
	matcher := shiftService.NewShiftService(f.shifts, f.entries, employees)
	entrySvc := entryService.NewEntryService(
		f.entries,
		employees,
		f.leaves,
		f.shifts,
		matcher,
		memory.NewLatenessRepository(),
		nil,
		clock,
		attendance.DefaultPolicy(),
		time.UTC,
	)

	f.jobs = NewAttendanceJobs(
		f.shifts,
		f.entries,
		f.leaves,
		entrySvc,
		noopNotifier{},
		clock,
		attendance.DefaultPolicy(),
		time.UTC,
		4*time.Hour,
	)
	return f
}

func (f *sweepFixture) seedShift(t *testing.T, id, start string, status shift.Status) shift.Assignment {
	t.Helper()
	created, err := f.shifts.Create(context.Background(), shift.Assignment{
		ID:         id,
		EmployeeID: sweepEmployeeID,
		Date:       sweepDay,
		StartTime:  start,
		EndTime:    "17:00",
		Status:     status,
	})
	require.NoError(t, err)
	return created
}

func TestMarkAbsentEmployees(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()

	// 09:00 start, 3h cutoff, now 14:00: past the cutoff with no entry.
	f.seedShift(t, "shift-noshow", "09:00", shift.StatusScheduled)
	// 13:00 start is still inside the cutoff window.
	f.seedShift(t, "shift-upcoming", "13:00", shift.StatusScheduled)

	require.NoError(t, f.jobs.MarkAbsentEmployees(ctx))

	missed, err := f.shifts.GetByID(ctx, "shift-noshow")
	require.NoError(t, err)
	assert.Equal(t, shift.StatusMissed, missed.Status)

	upcoming, err := f.shifts.GetByID(ctx, "shift-upcoming")
	require.NoError(t, err)
	assert.Equal(t, shift.StatusScheduled, upcoming.Status)
}

func TestMarkAbsentSkipsApprovedLeave(t *testing.T) {
	f := newSweepFixture(t)
	f.seedShift(t, "shift-leave", "09:00", shift.StatusScheduled)
	f.leaves.Put(leave.Request{
		EmployeeID: sweepEmployeeID,
		StartDate:  sweepDay,
		EndDate:    sweepDay,
		Status:     leave.StatusApproved,
	})

	require.NoError(t, f.jobs.MarkAbsentEmployees(context.Background()))

	sh, err := f.shifts.GetByID(context.Background(), "shift-leave")
	require.NoError(t, err)
	assert.Equal(t, shift.StatusScheduled, sh.Status)
}

func TestCloseStaleEntries(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()

	// Opened 6h ago against a 4h stale age.
	stale, err := f.entries.Create(ctx, timeentry.Entry{
		EmployeeID: sweepEmployeeID,
		Date:       "2026-03-02",
		ClockIn:    sweepNow.Add(-6 * time.Hour),
		Status:     timeentry.StatusClockedIn,
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.CloseStaleEntries(ctx))

	closed, err := f.entries.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusClockedOut, closed.Status)
	require.NotNil(t, closed.ClockOut)
	assert.Equal(t, sweepNow, *closed.ClockOut)
	require.NotNil(t, closed.HoursWorked)
	assert.Equal(t, 6.0, *closed.HoursWorked)
}

func TestCloseStaleEntriesLeavesFreshOnesOpen(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()

	fresh, err := f.entries.Create(ctx, timeentry.Entry{
		EmployeeID: sweepEmployeeID,
		Date:       "2026-03-02",
		ClockIn:    sweepNow.Add(-2 * time.Hour),
		Status:     timeentry.StatusClockedIn,
	})
	require.NoError(t, err)

	require.NoError(t, f.jobs.CloseStaleEntries(ctx))

	still, err := f.entries.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, timeentry.StatusClockedIn, still.Status)
}

func TestReconcileShiftDrift(t *testing.T) {
	f := newSweepFixture(t)
	ctx := context.Background()

	// A shift pointing at an entry that no longer exists.
	orphan := f.seedShift(t, "shift-orphan", "09:00", shift.StatusInProgress)
	gone := "entry-gone"
	start := sweepDay.Add(9 * time.Hour)
	require.NoError(t, f.shifts.UpdateEntryLink(ctx, orphan.ID, shift.StatusInProgress, &gone, &start, nil))

	// A shift still In Progress after its entry closed.
	end := sweepDay.Add(17 * time.Hour)
	closedEntry, err := f.entries.Create(ctx, timeentry.Entry{
		EmployeeID: sweepEmployeeID,
		Date:       "2026-03-02",
		ClockIn:    start,
		ClockOut:   &end,
		Status:     timeentry.StatusClockedOut,
	})
	require.NoError(t, err)
	lagging := f.seedShift(t, "shift-lagging", "09:00", shift.StatusInProgress)
	require.NoError(t, f.shifts.UpdateEntryLink(ctx, lagging.ID, shift.StatusInProgress, &closedEntry.ID, &start, nil))

	require.NoError(t, f.jobs.ReconcileShiftDrift(ctx))

	repaired, err := f.shifts.GetByID(ctx, orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusScheduled, repaired.Status)
	assert.Nil(t, repaired.TimeEntryID)

	completed, err := f.shifts.GetByID(ctx, lagging.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusCompleted, completed.Status)
	require.NotNil(t, completed.ActualEndTime)
	assert.Equal(t, end, *completed.ActualEndTime)
}
