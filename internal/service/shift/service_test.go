package shift

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/repository/memory"
)

const matcherEmployeeID = "3f9d2c6e-84b1-47a0-bd5e-9c7a21e0f483"

var matcherDay = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type shiftFixture struct {
	shifts    *memory.ShiftRepository
	entries   *memory.EntryRepository
	employees *memory.EmployeeRepository
	service   shift.ShiftService
}

func newShiftFixture(t *testing.T) *shiftFixture {
	t.Helper()

	f := &shiftFixture{
		shifts:    memory.NewShiftRepository(),
		entries:   memory.NewEntryRepository(),
		employees: memory.NewEmployeeRepository(),
	}
	f.employees.Put(employee.Employee{
		ID:               matcherEmployeeID,
		FullName:         "Priya Raman",
		EmploymentStatus: employee.StatusActive,
	})
	f.service = NewShiftService(f.shifts, f.entries, f.employees)
	return f
}

func (f *shiftFixture) seed(t *testing.T, id, start, location string, status shift.Status) shift.Assignment {
	t.Helper()
	created, err := f.shifts.Create(context.Background(), shift.Assignment{
		ID:         id,
		EmployeeID: matcherEmployeeID,
		Date:       matcherDay,
		StartTime:  start,
		EndTime:    "17:00",
		Location:   location,
		Status:     status,
	})
	require.NoError(t, err)
	return created
}

func TestFindShiftPrefersLocationMatch(t *testing.T) {
	f := newShiftFixture(t)
	f.seed(t, "shift-a", "08:00", "Warehouse A", shift.StatusScheduled)
	f.seed(t, "shift-b", "09:00", "Warehouse B", shift.StatusScheduled)

	match, err := f.service.FindShift(context.Background(), matcherEmployeeID, matcherDay, "Warehouse B")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "shift-b", match.Assignment.ID)
	assert.False(t, match.LocationMismatch)
}

func TestFindShiftEarliestStartWhenNoLocationGiven(t *testing.T) {
	f := newShiftFixture(t)
	f.seed(t, "shift-late", "14:00", "Warehouse A", shift.StatusScheduled)
	f.seed(t, "shift-early", "06:00", "Warehouse B", shift.StatusScheduled)

	match, err := f.service.FindShift(context.Background(), matcherEmployeeID, matcherDay, "")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "shift-early", match.Assignment.ID)
	assert.False(t, match.LocationMismatch)
}

func TestFindShiftFlagsLocationMismatch(t *testing.T) {
	f := newShiftFixture(t)
	f.seed(t, "shift-a", "09:00", "Warehouse A", shift.StatusScheduled)

	match, err := f.service.FindShift(context.Background(), matcherEmployeeID, matcherDay, "Downtown Office")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "shift-a", match.Assignment.ID)
	assert.True(t, match.LocationMismatch)
}

func TestFindShiftBreaksTiesByID(t *testing.T) {
	f := newShiftFixture(t)
	f.seed(t, "shift-b", "09:00", "Warehouse B", shift.StatusScheduled)
	f.seed(t, "shift-a", "09:00", "Warehouse A", shift.StatusScheduled)

	match, err := f.service.FindShift(context.Background(), matcherEmployeeID, matcherDay, "")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "shift-a", match.Assignment.ID)
}

func TestFindShiftSkipsTerminalStatuses(t *testing.T) {
	f := newShiftFixture(t)
	f.seed(t, "shift-done", "06:00", "Warehouse A", shift.StatusCompleted)
	f.seed(t, "shift-gone", "07:00", "Warehouse A", shift.StatusCancelled)
	f.seed(t, "shift-missed", "07:30", "Warehouse A", shift.StatusMissed)
	f.seed(t, "shift-live", "09:00", "Warehouse A", shift.StatusInProgress)

	match, err := f.service.FindShift(context.Background(), matcherEmployeeID, matcherDay, "")
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "shift-live", match.Assignment.ID)
}

func TestFindShiftNoneIsNotAnError(t *testing.T) {
	f := newShiftFixture(t)

	match, err := f.service.FindShift(context.Background(), matcherEmployeeID, matcherDay, "")
	require.NoError(t, err)
	assert.Nil(t, match)
}

func TestCreateAssignment(t *testing.T) {
	f := newShiftFixture(t)

	resp, err := f.service.CreateAssignment(context.Background(), shift.CreateAssignmentRequest{
		EmployeeID: matcherEmployeeID,
		Date:       "2026-03-02",
		StartTime:  "09:00",
		EndTime:    "17:00",
		Location:   "Warehouse A",
	})
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusScheduled), resp.Status)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.NotEmpty(t, resp.ID)
}

func TestCreateAssignmentUnknownEmployee(t *testing.T) {
	f := newShiftFixture(t)

	_, err := f.service.CreateAssignment(context.Background(), shift.CreateAssignmentRequest{
		EmployeeID: "no-such-employee",
		Date:       "2026-03-02",
		StartTime:  "09:00",
		EndTime:    "17:00",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestCancelAssignmentTerminalGuard(t *testing.T) {
	f := newShiftFixture(t)
	live := f.seed(t, "shift-live", "09:00", "Warehouse A", shift.StatusScheduled)
	done := f.seed(t, "shift-done", "09:00", "Warehouse A", shift.StatusCompleted)
	ctx := context.Background()

	resp, err := f.service.CancelAssignment(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, string(shift.StatusCancelled), resp.Status)

	_, err = f.service.CancelAssignment(ctx, done.ID)
	assert.ErrorIs(t, err, shift.ErrAssignmentFinished)

	// Cancelling twice hits the same guard.
	_, err = f.service.CancelAssignment(ctx, live.ID)
	assert.ErrorIs(t, err, shift.ErrAssignmentFinished)

	_, err = f.service.CancelAssignment(ctx, "no-such-shift")
	assert.ErrorIs(t, err, shift.ErrAssignmentNotFound)
}

func TestDeleteAssignmentClearsEntryLink(t *testing.T) {
	f := newShiftFixture(t)
	ctx := context.Background()

	entry, err := f.entries.Create(ctx, timeentry.Entry{
		EmployeeID: matcherEmployeeID,
		Date:       "2026-03-02",
		ClockIn:    matcherDay.Add(9 * time.Hour),
		Status:     timeentry.StatusClockedIn,
	})
	require.NoError(t, err)

	sh := f.seed(t, "shift-linked", "09:00", "Warehouse A", shift.StatusInProgress)
	hours := 8.0
	entry.ShiftAssignmentID = &sh.ID
	entry.ScheduledHours = &hours
	require.NoError(t, f.entries.Update(ctx, entry))
	require.NoError(t, f.shifts.UpdateEntryLink(ctx, sh.ID, shift.StatusInProgress, &entry.ID, &entry.ClockIn, nil))

	require.NoError(t, f.service.DeleteAssignment(ctx, sh.ID))

	_, err = f.shifts.GetByID(ctx, sh.ID)
	assert.ErrorIs(t, err, shift.ErrAssignmentNotFound)

	// The entry keeps its recorded times but loses the shift reference.
	unlinked, err := f.entries.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, unlinked.ShiftAssignmentID)
	assert.Nil(t, unlinked.ScheduledHours)
	assert.Equal(t, timeentry.StatusClockedIn, unlinked.Status)

	assert.ErrorIs(t, f.service.DeleteAssignment(ctx, sh.ID), shift.ErrAssignmentNotFound)
}

func TestListAssignmentsFiltersByEmployee(t *testing.T) {
	f := newShiftFixture(t)
	f.employees.Put(employee.Employee{
		ID:               "other-employee",
		FullName:         "Marcus Bell",
		EmploymentStatus: employee.StatusActive,
	})
	f.seed(t, "shift-mine", "09:00", "Warehouse A", shift.StatusScheduled)
	_, err := f.shifts.Create(context.Background(), shift.Assignment{
		ID:         "shift-theirs",
		EmployeeID: "other-employee",
		Date:       matcherDay,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Status:     shift.StatusScheduled,
	})
	require.NoError(t, err)

	all, err := f.service.ListAssignments(context.Background(), matcherDay, matcherDay, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.service.ListAssignments(context.Background(), matcherDay, matcherDay, matcherEmployeeID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "shift-mine", mine[0].ID)
}
