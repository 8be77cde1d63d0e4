package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	HomeLocation     string
	EmploymentStatus EmploymentStatus
	HourlyRate       decimal.Decimal
	HireDate         time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DeletedAt        *time.Time
}

type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusInactive   EmploymentStatus = "inactive"
	StatusTerminated EmploymentStatus = "terminated"
)

// Active reports whether the employee may record attendance.
func (e Employee) Active() bool {
	return e.EmploymentStatus == StatusActive && e.DeletedAt == nil
}
