package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
)

func testShift(start, end string) *shift.Assignment {
	return &shift.Assignment{
		ID:         "shift-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		StartTime:  start,
		EndTime:    end,
		Status:     shift.StatusScheduled,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestClassifyLeaveAlwaysWins(t *testing.T) {
	clockIn := at(12, 30)
	v := Classify(testShift("09:00", "17:00"), &clockIn, at(13, 0), true, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusOnLeave, v.Status)

	// Even with no shift at all.
	v = Classify(nil, nil, at(13, 0), true, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusOnLeave, v.Status)
}

func TestClassifyUnscheduled(t *testing.T) {
	clockIn := at(9, 0)
	v := Classify(nil, &clockIn, at(10, 0), false, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusUnscheduled, v.Status)
}

func TestClassifyMalformedStartTime(t *testing.T) {
	clockIn := at(9, 0)
	v := Classify(testShift("9am", "17:00"), &clockIn, at(10, 0), false, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusUnschedulable, v.Status)
	assert.NotEmpty(t, v.Reason)
}

func TestClassifyNoClockIn(t *testing.T) {
	sh := testShift("09:00", "17:00")

	// One hour after start: cutoff not reached yet.
	v := Classify(sh, nil, at(10, 0), false, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusPending, v.Status)

	// Exactly at the cutoff still pends; Absent requires passing it.
	v = Classify(sh, nil, at(12, 0), false, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusPending, v.Status)

	// Four hours after start: past the 3-hour cutoff.
	v = Classify(sh, nil, at(13, 0), false, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusAbsent, v.Status)
	assert.Zero(t, v.MinutesLate)
}

func TestClassifyClockInVerdicts(t *testing.T) {
	sh := testShift("09:00", "17:00")
	now := at(18, 0)

	cases := []struct {
		name        string
		clockIn     time.Time
		want        Status
		minutesLate int
		approval    bool
	}{
		{"before start", at(8, 45), StatusOnTime, 0, false},
		{"exactly at start", at(9, 0), StatusOnTime, 0, false},
		{"seven minutes late", at(9, 7), StatusLate, 7, false},
		{"ninety minutes late", at(10, 30), StatusLate, 90, true},
		{"beyond cutoff keeps minutes for audit", at(13, 0), StatusAbsent, 240, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clockIn := c.clockIn
			v := Classify(sh, &clockIn, now, false, DefaultPolicy(), time.UTC)
			assert.Equal(t, c.want, v.Status)
			assert.Equal(t, c.minutesLate, v.MinutesLate)
			assert.Equal(t, c.approval, v.RequiresApproval)
		})
	}
}

func TestClassifyOvernightShift(t *testing.T) {
	sh := testShift("22:00", "06:00")

	// 23:00 same day, one hour late.
	clockIn := at(23, 0)
	v := Classify(sh, &clockIn, at(23, 30), false, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusLate, v.Status)
	assert.Equal(t, 60, v.MinutesLate)

	// No clock-in by 02:00 next day: past the cutoff (01:00).
	v = Classify(sh, nil, time.Date(2026, 3, 3, 2, 0, 0, 0, time.UTC), false, DefaultPolicy(), time.UTC)
	assert.Equal(t, StatusAbsent, v.Status)
}

func TestClassifyPolicyIsConfigurable(t *testing.T) {
	sh := testShift("09:00", "17:00")
	tight := Policy{OnTimeBufferMinutes: 5, LatenessGraceMinutes: 1, AbsenceCutoffMinutes: 60}

	clockIn := at(10, 30)
	v := Classify(sh, &clockIn, at(11, 0), false, tight, time.UTC)
	assert.Equal(t, StatusAbsent, v.Status)
	assert.Equal(t, 90, v.MinutesLate)
}
