package timeentry

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/attendance"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/leave"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/repository/memory"
	shiftService "github.com/shiftwise-hq/shiftwise-backend/internal/service/shift"
)

// stepClock is a settable clock so tests can move through a working day.
type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time { return c.now }

type fixture struct {
	entries   *memory.EntryRepository
	employees *memory.EmployeeRepository
	leaves    *memory.LeaveRepository
	shifts    *memory.ShiftRepository
	lateness  *memory.LatenessRepository
	clock     *stepClock
	service   timeentry.EntryService
}

const testEmployeeID = "7b41e4a8-0ac2-4c5d-9e2f-1a6f0c3d8b21"

var testDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		entries:   memory.NewEntryRepository(),
		employees: memory.NewEmployeeRepository(),
		leaves:    memory.NewLeaveRepository(time.UTC),
		shifts:    memory.NewShiftRepository(),
		lateness:  memory.NewLatenessRepository(),
		clock:     &stepClock{now: testDay.Add(9 * time.Hour)},
	}

	f.employees.Put(employee.Employee{
		ID:               testEmployeeID,
		FullName:         "Dana Whitfield",
		EmploymentStatus: employee.StatusActive,
	})

	matcher := shiftService.NewShiftService(f.shifts, f.entries, f.employees)
	f.service = NewEntryService(
		f.entries,
		f.employees,
		f.leaves,
		f.shifts,
		matcher,
		f.lateness,
		nil,
		f.clock,
		attendance.DefaultPolicy(),
		time.UTC,
	)
	return f
}

func (f *fixture) seedShift(t *testing.T, start, end string) shift.Assignment {
	t.Helper()
	created, err := f.shifts.Create(context.Background(), shift.Assignment{
		EmployeeID: testEmployeeID,
		Date:       testDay,
		StartTime:  start,
		EndTime:    end,
		Location:   "Warehouse A",
		Status:     shift.StatusScheduled,
	})
	require.NoError(t, err)
	return created
}

func TestClockInLifecycle(t *testing.T) {
	f := newFixture(t)
	sh := f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	resp, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)

	assert.Equal(t, string(timeentry.StatusClockedIn), resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
	require.NotNil(t, resp.ShiftAssignmentID)
	assert.Equal(t, sh.ID, *resp.ShiftAssignmentID)
	require.NotNil(t, resp.ScheduledHours)
	assert.Equal(t, 8.0, *resp.ScheduledHours)
	assert.Equal(t, string(attendance.StatusOnTime), resp.AttendanceStatus)

	// Shift mirrored to In Progress with actual start recorded.
	linked, err := f.shifts.GetByID(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusInProgress, linked.Status)
	require.NotNil(t, linked.TimeEntryID)
	assert.Equal(t, resp.ID, *linked.TimeEntryID)
	require.NotNil(t, linked.ActualStartTime)
	assert.Nil(t, linked.ActualEndTime)

	// Lunch break 12:00 to 12:30.
	f.clock.now = testDay.Add(12 * time.Hour)
	brk, err := f.service.StartBreak(ctx, timeentry.BreakRequest{EmployeeID: testEmployeeID, Category: "lunch"})
	require.NoError(t, err)
	assert.Equal(t, string(timeentry.StatusOnBreak), brk.Status)
	require.NotNil(t, brk.OnBreakStart)

	f.clock.now = testDay.Add(12*time.Hour + 30*time.Minute)
	resumed, err := f.service.ResumeWork(ctx, timeentry.BreakRequest{EmployeeID: testEmployeeID, Category: "lunch"})
	require.NoError(t, err)
	assert.Equal(t, string(timeentry.StatusClockedIn), resumed.Status)
	assert.Nil(t, resumed.OnBreakStart)
	require.Len(t, resumed.Breaks, 1)
	assert.Equal(t, 30, resumed.Breaks[0].DurationMinutes)

	// Clock out at 17:00: 8h minus 30m break.
	f.clock.now = testDay.Add(17 * time.Hour)
	out, err := f.service.ClockOut(ctx, timeentry.ClockOutRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Equal(t, string(timeentry.StatusClockedOut), out.Status)
	require.NotNil(t, out.HoursWorked)
	assert.Equal(t, 7.5, *out.HoursWorked)
	require.NotNil(t, out.Variance)
	assert.Equal(t, -0.5, *out.Variance)

	completed, err := f.shifts.GetByID(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusCompleted, completed.Status)
	require.NotNil(t, completed.ActualEndTime)
}

func TestClockInCreatesLatenessRecordPastGrace(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	f.clock.now = testDay.Add(9*time.Hour + 7*time.Minute)
	resp, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), resp.AttendanceStatus)

	records, err := f.lateness.ListByDateRange(ctx, "2026-03-02", "2026-03-02", nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].MinutesLate)
	assert.Equal(t, testEmployeeID, records[0].EmployeeID)
	assert.False(t, records[0].Excused)
}

func TestClockInWithinGraceCreatesNoRecord(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	// Five minutes late: classified Late, but inside the record grace.
	f.clock.now = testDay.Add(9*time.Hour + 5*time.Minute)
	resp, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusLate), resp.AttendanceStatus)

	records, err := f.lateness.ListByDateRange(ctx, "2026-03-02", "2026-03-02", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClockInVerdictUsesBuffer(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	// Ten minutes past start: inside the 15-minute tolerance, so the
	// employee-facing verdict is on time even though the daily classification
	// is strictly late.
	f.clock.now = testDay.Add(9*time.Hour + 10*time.Minute)
	resp, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Equal(t, string(timeutil.ClockInOnTime), resp.ClockInVerdict)
	assert.Equal(t, 0, resp.ClockInOffsetMinutes)
	assert.Equal(t, string(attendance.StatusLate), resp.AttendanceStatus)
}

func TestClockInVerdictEarlyAndLate(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	f.clock.now = testDay.Add(8*time.Hour + 40*time.Minute)
	resp, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Equal(t, string(timeutil.ClockInEarly), resp.ClockInVerdict)
	assert.Equal(t, 20, resp.ClockInOffsetMinutes)

	require.NoError(t, f.service.DeleteEntry(ctx, resp.ID))

	f.clock.now = testDay.Add(9*time.Hour + 20*time.Minute)
	resp, err = f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Equal(t, string(timeutil.ClockInLate), resp.ClockInVerdict)
	assert.Equal(t, 20, resp.ClockInOffsetMinutes)
}

func TestConcurrentClockInsSingleWinner(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, timeentry.ErrAlreadyActive)
	}
	assert.Equal(t, 1, winners)

	entry, err := f.entries.GetByEmployeeAndDate(ctx, testEmployeeID, "2026-03-02")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, timeentry.StatusClockedIn, entry.Status)
}

func TestClockInStateGuards(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)

	_, err = f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	assert.ErrorIs(t, err, timeentry.ErrAlreadyActive)

	f.clock.now = testDay.Add(17 * time.Hour)
	_, err = f.service.ClockOut(ctx, timeentry.ClockOutRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)

	// One session per date: the day is closed.
	_, err = f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	assert.ErrorIs(t, err, timeentry.ErrAlreadyCompleted)
}

func TestBreakPreconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.StartBreak(ctx, timeentry.BreakRequest{EmployeeID: testEmployeeID})
	assert.ErrorIs(t, err, timeentry.ErrNotClockedIn)

	_, err = f.service.ResumeWork(ctx, timeentry.BreakRequest{EmployeeID: testEmployeeID})
	assert.ErrorIs(t, err, timeentry.ErrNotOnBreak)

	_, err = f.service.ClockOut(ctx, timeentry.ClockOutRequest{EmployeeID: testEmployeeID})
	assert.ErrorIs(t, err, timeentry.ErrNoActiveEntry)
}

func TestClockOutFromBreakKeepsBreakTime(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	_, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)

	f.clock.now = testDay.Add(12 * time.Hour)
	_, err = f.service.StartBreak(ctx, timeentry.BreakRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)

	// Clocking out while on break closes the break first.
	f.clock.now = testDay.Add(13 * time.Hour)
	out, err := f.service.ClockOut(ctx, timeentry.ClockOutRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	require.Len(t, out.Breaks, 1)
	assert.Equal(t, 60, out.Breaks[0].DurationMinutes)
	require.NotNil(t, out.HoursWorked)
	assert.Equal(t, 3.0, *out.HoursWorked)
}

func TestInactiveEmployeeCannotClockIn(t *testing.T) {
	f := newFixture(t)
	f.employees.Put(employee.Employee{
		ID:               testEmployeeID,
		FullName:         "Dana Whitfield",
		EmploymentStatus: employee.StatusTerminated,
	})

	_, err := f.service.ClockIn(context.Background(), timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	assert.ErrorIs(t, err, timeentry.ErrEmployeeInactive)
}

func TestForceResetIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	_, err := f.service.ForceReset(ctx, timeentry.ForceResetRequest{EmployeeID: testEmployeeID, Date: "2026-03-02"})
	assert.ErrorIs(t, err, timeentry.ErrNoActiveEntry)

	_, err = f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)

	f.clock.now = testDay.Add(18 * time.Hour)
	result, err := f.service.ForceReset(ctx, timeentry.ForceResetRequest{EmployeeID: testEmployeeID, Date: "2026-03-02"})
	require.NoError(t, err)
	assert.True(t, result.Reset)
	require.NotNil(t, result.Entry)
	assert.Equal(t, string(timeentry.StatusClockedOut), result.Entry.Status)
	require.NotNil(t, result.Entry.HoursWorked)
	assert.Equal(t, 9.0, *result.Entry.HoursWorked)

	// Second reset is a no-op.
	again, err := f.service.ForceReset(ctx, timeentry.ForceResetRequest{EmployeeID: testEmployeeID, Date: "2026-03-02"})
	require.NoError(t, err)
	assert.False(t, again.Reset)
	assert.Equal(t, "nothing to reset", again.Message)
}

func TestDeleteEntryResetsLinkedShift(t *testing.T) {
	f := newFixture(t)
	sh := f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	resp, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteEntry(ctx, resp.ID))

	_, err = f.entries.GetByID(ctx, resp.ID)
	assert.ErrorIs(t, err, timeentry.ErrEntryNotFound)

	reset, err := f.shifts.GetByID(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusScheduled, reset.Status)
	assert.Nil(t, reset.TimeEntryID)
	assert.Nil(t, reset.ActualStartTime)
	assert.Nil(t, reset.ActualEndTime)

	assert.ErrorIs(t, f.service.DeleteEntry(ctx, resp.ID), timeentry.ErrEntryNotFound)
}

func TestManualEntryRejectsInvertedInterval(t *testing.T) {
	f := newFixture(t)
	out := testDay.Add(8 * time.Hour).Format(time.RFC3339)

	_, err := f.service.ManualEntry(context.Background(), timeentry.ManualEntryRequest{
		EmployeeID: testEmployeeID,
		Date:       "2026-03-02",
		ClockIn:    testDay.Add(9 * time.Hour).Format(time.RFC3339),
		ClockOut:   &out,
	})
	assert.ErrorIs(t, err, timeutil.ErrInvalidInterval)
}

func TestManualEntryRecomputesDerivedNumbers(t *testing.T) {
	f := newFixture(t)
	sh := f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	out := testDay.Add(18 * time.Hour).Format(time.RFC3339)
	resp, err := f.service.ManualEntry(ctx, timeentry.ManualEntryRequest{
		EmployeeID: testEmployeeID,
		Date:       "2026-03-02",
		ClockIn:    testDay.Add(9 * time.Hour).Format(time.RFC3339),
		ClockOut:   &out,
		Breaks: []timeentry.ManualBreak{{
			Start: testDay.Add(12 * time.Hour).Format(time.RFC3339),
			End:   testDay.Add(13 * time.Hour).Format(time.RFC3339),
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, string(timeentry.StatusClockedOut), resp.Status)
	require.NotNil(t, resp.HoursWorked)
	assert.Equal(t, 8.0, *resp.HoursWorked)
	require.NotNil(t, resp.Variance)
	assert.Equal(t, 0.0, *resp.Variance)
	require.NotNil(t, resp.ShiftAssignmentID)
	assert.Equal(t, sh.ID, *resp.ShiftAssignmentID)

	// Overwriting the same day replaces, never duplicates.
	resp2, err := f.service.ManualEntry(ctx, timeentry.ManualEntryRequest{
		EmployeeID: testEmployeeID,
		Date:       "2026-03-02",
		ClockIn:    testDay.Add(10 * time.Hour).Format(time.RFC3339),
		ClockOut:   &out,
	})
	require.NoError(t, err)
	assert.Equal(t, resp.ID, resp2.ID)
	require.NotNil(t, resp2.HoursWorked)
	assert.Equal(t, 8.0, *resp2.HoursWorked)

	synced, err := f.shifts.GetByID(ctx, sh.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.StatusCompleted, synced.Status)
}

func TestUnscheduledClockIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.service.ClockIn(ctx, timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Nil(t, resp.ShiftAssignmentID)
	assert.Equal(t, string(attendance.StatusUnscheduled), resp.AttendanceStatus)

	// Without a shift there is nothing to be late against.
	records, err := f.lateness.ListByDateRange(ctx, "2026-03-02", "2026-03-02", nil)
	require.NoError(t, err)
	assert.Empty(t, records)

	// Variance against zero scheduled hours.
	f.clock.now = testDay.Add(13 * time.Hour)
	out, err := f.service.ClockOut(ctx, timeentry.ClockOutRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	require.NotNil(t, out.Variance)
	assert.Equal(t, 4.0, *out.Variance)
}

func TestApprovedLeaveSuppressesClassification(t *testing.T) {
	f := newFixture(t)
	f.seedShift(t, "09:00", "17:00")
	f.leaves.Put(leave.Request{
		EmployeeID: testEmployeeID,
		StartDate:  testDay,
		EndDate:    testDay,
		Status:     leave.StatusApproved,
	})

	resp, err := f.service.ClockIn(context.Background(), timeentry.ClockInRequest{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusOnLeave), resp.AttendanceStatus)
}

func TestGetDayStatus(t *testing.T) {
	f := newFixture(t)
	sh := f.seedShift(t, "09:00", "17:00")
	ctx := context.Background()

	// Before the cutoff with no clock-in: still pending.
	f.clock.now = testDay.Add(10 * time.Hour)
	status, err := f.service.GetDayStatus(ctx, testEmployeeID, testDay)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusPending), status.Status)
	require.NotNil(t, status.ShiftID)
	assert.Equal(t, sh.ID, *status.ShiftID)
	assert.Nil(t, status.EntryID)

	// Past the cutoff it becomes an absence.
	f.clock.now = testDay.Add(13 * time.Hour)
	status, err = f.service.GetDayStatus(ctx, testEmployeeID, testDay)
	require.NoError(t, err)
	assert.Equal(t, string(attendance.StatusAbsent), status.Status)
}
