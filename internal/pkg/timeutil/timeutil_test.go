package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWallClock(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"23:59", 1439, false},
		{"9:30", 570, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12:5", 0, true},
		{"12-30", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseWallClock(c.input)
		if c.wantErr {
			require.Error(t, err, "input %q", c.input)
			assert.ErrorIs(t, err, ErrMalformedTime)
			continue
		}
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}

func TestScheduledHours(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"standard day", "09:00", "17:00", 8},
		{"half hour", "09:00", "17:30", 8.5},
		{"overnight", "22:00", "06:00", 8},
		{"overnight short", "23:30", "00:15", 0.75},
		{"equal start and end is a full day", "09:00", "09:00", 24},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ScheduledHours(c.start, c.end)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	_, err := ScheduledHours("9am", "17:00")
	assert.ErrorIs(t, err, ErrMalformedTime)
}

func TestHoursWorked(t *testing.T) {
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	got, err := HoursWorked(clockIn, clockIn.Add(8*time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got)

	got, err = HoursWorked(clockIn, clockIn.Add(8*time.Hour), []int{30, 15})
	require.NoError(t, err)
	assert.Equal(t, 7.25, got)

	// Breaks exceeding the interval clamp to zero rather than going negative.
	got, err = HoursWorked(clockIn, clockIn.Add(30*time.Minute), []int{45})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = HoursWorked(clockIn, clockIn.Add(-time.Minute), nil)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestClassifyClockIn(t *testing.T) {
	cases := []struct {
		name             string
		clockIn          string
		shiftStart       string
		want             ClockInClass
		wantOffset       int
		requiresApproval bool
	}{
		{"exactly on time", "09:00", "09:00", ClockInOnTime, 0, false},
		{"inside buffer", "09:10", "09:00", ClockInOnTime, 0, false},
		{"at buffer edge", "09:15", "09:00", ClockInOnTime, 0, false},
		{"just past buffer", "09:20", "09:00", ClockInLate, 20, false},
		{"very late needs approval", "10:30", "09:00", ClockInLate, 90, true},
		{"early", "08:30", "09:00", ClockInEarly, 30, false},
		{"early within buffer", "08:50", "09:00", ClockInOnTime, 0, false},
		{"overnight early", "21:55", "22:00", ClockInOnTime, 0, false},
		{"overnight late past midnight", "00:05", "22:00", ClockInLate, 125, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ClassifyClockIn(c.clockIn, c.shiftStart, 15)
			require.NoError(t, err)
			assert.Equal(t, c.want, got.Status)
			assert.Equal(t, c.wantOffset, got.MinutesOffset)
			assert.Equal(t, c.requiresApproval, got.RequiresApproval)
		})
	}

	_, err := ClassifyClockIn("late", "09:00", 15)
	assert.ErrorIs(t, err, ErrMalformedTime)
}

func TestShiftBounds(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	start, end, err := ShiftBounds(date, "09:00", "17:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 0, 0, 0, loc), end)

	// Overnight shift ends the next calendar day.
	start, end, err = ShiftBounds(date, "22:00", "06:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 22, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 3, 6, 0, 0, 0, loc), end)
}

func TestDateKey(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 23:30 UTC on March 1 is already March 2 in Jakarta (UTC+7).
	instant := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-02", DateKey(instant, loc))
	assert.Equal(t, "2026-03-01", DateKey(instant, time.UTC))
}
