package lateness

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
	"github.com/shiftwise-hq/shiftwise-backend/internal/repository/memory"
)

var excuseNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func newLatenessService(t *testing.T) (*memory.LatenessRepository, lateness.LatenessService) {
	t.Helper()
	repo := memory.NewLatenessRepository()
	return repo, NewLatenessService(repo, timeutil.Fixed{T: excuseNow})
}

func seedRecord(t *testing.T, repo *memory.LatenessRepository, employeeID, date string, minutes int) lateness.Record {
	t.Helper()
	created, err := repo.Create(context.Background(), lateness.Record{
		EmployeeID:     employeeID,
		Date:           date,
		ScheduledStart: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		ActualStart:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute),
		MinutesLate:    minutes,
	})
	require.NoError(t, err)
	return created
}

func TestExcuseRecord(t *testing.T) {
	repo, svc := newLatenessService(t)
	record := seedRecord(t, repo, "emp-a", "2026-03-02", 12)

	resp, err := svc.Excuse(context.Background(), lateness.ExcuseRequest{
		ID:        record.ID,
		ExcusedBy: "admin-1",
		Reason:    "train outage on the red line",
	})
	require.NoError(t, err)

	assert.True(t, resp.Excused)
	require.NotNil(t, resp.ExcusedBy)
	assert.Equal(t, "admin-1", *resp.ExcusedBy)
	require.NotNil(t, resp.ExcuseReason)
	assert.Equal(t, "train outage on the red line", *resp.ExcuseReason)
	require.NotNil(t, resp.ExcusedAt)
	assert.Equal(t, excuseNow.Format(time.RFC3339), *resp.ExcusedAt)

	// The lateness facts themselves are untouched.
	assert.Equal(t, 12, resp.MinutesLate)

	_, err = svc.Excuse(context.Background(), lateness.ExcuseRequest{
		ID:        record.ID,
		ExcusedBy: "admin-2",
		Reason:    "second attempt",
	})
	assert.ErrorIs(t, err, lateness.ErrAlreadyExcused)
}

func TestExcuseValidation(t *testing.T) {
	repo, svc := newLatenessService(t)
	record := seedRecord(t, repo, "emp-a", "2026-03-02", 12)

	_, err := svc.Excuse(context.Background(), lateness.ExcuseRequest{
		ID:        record.ID,
		ExcusedBy: "admin-1",
	})
	assert.Error(t, err)

	_, err = svc.Excuse(context.Background(), lateness.ExcuseRequest{
		ID:        "no-such-record",
		ExcusedBy: "admin-1",
		Reason:    "anything",
	})
	assert.ErrorIs(t, err, lateness.ErrRecordNotFound)
}

func TestListFiltersByEmployee(t *testing.T) {
	repo, svc := newLatenessService(t)
	seedRecord(t, repo, "emp-a", "2026-03-02", 10)
	seedRecord(t, repo, "emp-b", "2026-03-02", 25)
	seedRecord(t, repo, "emp-a", "2026-03-10", 7)

	all, err := svc.List(context.Background(), lateness.ListFilter{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-31",
	})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := svc.List(context.Background(), lateness.ListFilter{
		EmployeeID: "emp-a",
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-05",
	})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, 10, mine[0].MinutesLate)
}
