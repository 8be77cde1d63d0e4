package timeutil

import "time"

// Clock supplies the current instant. Services take a Clock instead of calling
// time.Now directly so that time-boundary behaviour (grace periods, absence
// cutoffs) is deterministic under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewSystemClock returns a Clock backed by the real wall clock, in UTC.
func NewSystemClock() Clock {
	return systemClock{}
}

// Fixed is a Clock pinned to a single instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}
