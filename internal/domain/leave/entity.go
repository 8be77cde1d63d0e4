package leave

import (
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
)

type Request struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	LeaveType  string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Covers reports whether the request's date span includes the given instant's
// calendar date in the organization's timezone (inclusive on both ends).
// StartDate/EndDate are pure dates; the instant is resolved to its local day
// before comparing, so a clock-in near midnight lands on the right side of the
// span regardless of the UTC offset.
func (r Request) Covers(date time.Time, loc *time.Location) bool {
	d := timeutil.DateKey(date, loc)
	return d >= r.StartDate.Format(timeutil.DateLayout) && d <= r.EndDate.Format(timeutil.DateLayout)
}
