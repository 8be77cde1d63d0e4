package notification

import "time"

type Notification struct {
	ID          string
	RecipientID string
	Type        Type
	Title       string
	Message     string
	Data        map[string]interface{}
	ReadAt      *time.Time
	CreatedAt   time.Time
}

type Type string

const (
	TypeClockIn          Type = "clock_in"
	TypeClockOut         Type = "clock_out"
	TypeLateArrival      Type = "late_arrival"
	TypeMarkedAbsent     Type = "marked_absent"
	TypeEntryAutoClosed  Type = "entry_auto_closed"
	TypeEntryForceClosed Type = "entry_force_closed"
)
