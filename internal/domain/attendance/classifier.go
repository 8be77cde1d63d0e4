// Package attendance holds the canonical daily attendance policy. The live
// reconciler, the day-status endpoint and every report projection classify
// through Classify so their verdicts can never drift apart.
package attendance

import (
	"errors"
	"fmt"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
)

type Status string

const (
	StatusUnscheduled   Status = "Unscheduled"
	StatusPending       Status = "Pending"
	StatusOnTime        Status = "On Time"
	StatusLate          Status = "Late"
	StatusAbsent        Status = "Absent"
	StatusOnLeave       Status = "On Leave"
	StatusUnschedulable Status = "Unschedulable"
)

// Policy carries the three tolerance windows. They serve different purposes
// and are deliberately separate values: the on-time buffer softens the
// clock-in verdict shown to the employee, the grace period gates creation of
// a lateness audit record, and the absence cutoff is where a no-show (or a
// very late arrival) becomes an absence.
type Policy struct {
	OnTimeBufferMinutes  int
	LatenessGraceMinutes int
	AbsenceCutoffMinutes int
}

// DefaultPolicy returns the organization defaults: 15-minute on-time buffer,
// 5-minute lateness grace, 3-hour absence cutoff.
func DefaultPolicy() Policy {
	return Policy{
		OnTimeBufferMinutes:  15,
		LatenessGraceMinutes: 5,
		AbsenceCutoffMinutes: 180,
	}
}

func (p Policy) AbsenceCutoff() time.Duration {
	return time.Duration(p.AbsenceCutoffMinutes) * time.Minute
}

// Verdict is the classification outcome for one employee/date.
type Verdict struct {
	Status Status

	// MinutesLate is reported for Late and for Absent-by-late-arrival (kept
	// for audit even though the status is reclassified).
	MinutesLate int

	// RequiresApproval is set when the arrival is more than an hour late.
	RequiresApproval bool

	Reason string
}

// Classify applies the canonical policy to one day's data.
//
// Leave always wins: an approved leave covering the date suppresses
// classification entirely. With no shift the day is Unscheduled regardless of
// clock events. A shift whose stored start time cannot be parsed yields
// Unschedulable rather than a silent on-time default, so scheduling
// data-quality problems surface in reports instead of masquerading as
// compliance.
func Classify(sh *shift.Assignment, clockIn *time.Time, now time.Time, onApprovedLeave bool, policy Policy, loc *time.Location) Verdict {
	if onApprovedLeave {
		return Verdict{Status: StatusOnLeave, Reason: "approved leave covers this date"}
	}
	if sh == nil {
		return Verdict{Status: StatusUnscheduled}
	}

	start, err := timeutil.CombineDate(sh.Date, sh.StartTime, loc)
	if err != nil {
		if errors.Is(err, timeutil.ErrMalformedTime) {
			return Verdict{
				Status: StatusUnschedulable,
				Reason: fmt.Sprintf("shift %s has malformed start time %q", sh.ID, sh.StartTime),
			}
		}
		return Verdict{Status: StatusUnschedulable, Reason: err.Error()}
	}

	cutoff := start.Add(policy.AbsenceCutoff())

	if clockIn == nil {
		if now.After(cutoff) {
			return Verdict{Status: StatusAbsent, Reason: "no clock-in recorded"}
		}
		return Verdict{Status: StatusPending, Reason: "shift not yet past absence cutoff"}
	}

	if !clockIn.After(start) {
		return Verdict{Status: StatusOnTime}
	}

	minutesLate := int(clockIn.Sub(start).Minutes())
	if clockIn.After(cutoff) {
		return Verdict{
			Status:           StatusAbsent,
			MinutesLate:      minutesLate,
			RequiresApproval: minutesLate > 60,
			Reason:           "arrival beyond absence cutoff",
		}
	}

	return Verdict{
		Status:           StatusLate,
		MinutesLate:      minutesLate,
		RequiresApproval: minutesLate > 60,
	}
}
