// Package timeutil is the single place where shift/attendance interval math
// lives. Every component (reconciler, handlers, reports, cron jobs) calls into
// these functions rather than re-deriving durations locally.
package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMalformedTime is returned when a wall-clock string is not valid
	// 24-hour "HH:MM". Callers must surface it, never default to on-time.
	ErrMalformedTime = errors.New("malformed wall-clock time")

	// ErrInvalidInterval is returned when a clock-out precedes its clock-in.
	ErrInvalidInterval = errors.New("clock-out precedes clock-in")
)

const minutesPerDay = 24 * 60

// DateLayout is the calendar date key format used throughout the attendance
// core.
const DateLayout = "2006-01-02"

// ParseWallClock parses a 24-hour "HH:MM" string into minutes since midnight.
func ParseWallClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) == 0 || len(parts[0]) > 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return h*60 + m, nil
}

// ScheduledHours returns the scheduled duration in hours between two "HH:MM"
// wall-clock times, rounded to 2 decimal places. An end time numerically at or
// before the start time denotes an overnight shift and gains 24 hours.
func ScheduledHours(startTime, endTime string) (float64, error) {
	start, err := ParseWallClock(startTime)
	if err != nil {
		return 0, err
	}
	end, err := ParseWallClock(endTime)
	if err != nil {
		return 0, err
	}
	if end <= start {
		end += minutesPerDay
	}
	return Round2(float64(end-start) / 60.0), nil
}

// HoursWorked returns (clockOut - clockIn) minus the supplied break durations,
// in hours rounded to 2 decimal places. A clock-out earlier than the clock-in
// is an ErrInvalidInterval, not a value to clamp.
func HoursWorked(clockIn, clockOut time.Time, breakMinutes []int) (float64, error) {
	if clockOut.Before(clockIn) {
		return 0, fmt.Errorf("%w: in=%s out=%s", ErrInvalidInterval,
			clockIn.Format(time.RFC3339), clockOut.Format(time.RFC3339))
	}
	total := clockOut.Sub(clockIn).Minutes()
	for _, b := range breakMinutes {
		total -= float64(b)
	}
	if total < 0 {
		total = 0
	}
	return Round2(total / 60.0), nil
}

// ClockInClass is the verdict of the clock-in-time buffer check. This is a
// separate, tighter check than the daily attendance classification.
type ClockInClass string

const (
	ClockInEarly  ClockInClass = "Early"
	ClockInOnTime ClockInClass = "On Time"
	ClockInLate   ClockInClass = "Late"
)

// ClockInResult carries the buffered clock-in verdict.
type ClockInResult struct {
	Status ClockInClass

	// MinutesOffset is |clockIn - shiftStart| for Early, the positive lateness
	// for Late, and 0 for On Time.
	MinutesOffset int

	// RequiresApproval is set when the clock-in is more than an hour late.
	RequiresApproval bool
}

// ClassifyClockIn compares a clock-in wall-clock time against the shift start
// within a tolerance buffer. Diffs are normalized into [-12h, +12h) so that an
// overnight shift starting 22:00 sees a 21:55 clock-in as 5 minutes early and
// a 00:05 clock-in as 2h05m late.
func ClassifyClockIn(clockInTime, shiftStart string, bufferMinutes int) (ClockInResult, error) {
	in, err := ParseWallClock(clockInTime)
	if err != nil {
		return ClockInResult{}, err
	}
	start, err := ParseWallClock(shiftStart)
	if err != nil {
		return ClockInResult{}, err
	}

	diff := in - start
	if diff >= minutesPerDay/2 {
		diff -= minutesPerDay
	} else if diff < -minutesPerDay/2 {
		diff += minutesPerDay
	}

	switch {
	case diff < -bufferMinutes:
		return ClockInResult{Status: ClockInEarly, MinutesOffset: -diff}, nil
	case diff <= bufferMinutes:
		return ClockInResult{Status: ClockInOnTime}, nil
	default:
		return ClockInResult{
			Status:           ClockInLate,
			MinutesOffset:    diff,
			RequiresApproval: diff > 60,
		}, nil
	}
}

// CombineDate anchors a "HH:MM" wall-clock time onto a calendar date in the
// organization's timezone and returns the absolute instant.
func CombineDate(date time.Time, wallClock string, loc *time.Location) (time.Time, error) {
	mins, err := ParseWallClock(wallClock)
	if err != nil {
		return time.Time{}, err
	}
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), mins/60, mins%60, 0, 0, loc), nil
}

// ShiftBounds returns the absolute start and end instants of a shift on the
// given date. An end wall-clock at or before the start rolls the end into the
// next calendar day.
func ShiftBounds(date time.Time, startTime, endTime string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := CombineDate(date, startTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := CombineDate(date, endTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

// DateKey formats an instant as the organization-local calendar date key.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
