package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/leave"
)

type LeaveRepository struct {
	mu    sync.RWMutex
	loc   *time.Location
	items []leave.Request
}

func NewLeaveRepository(loc *time.Location) *LeaveRepository {
	return &LeaveRepository{loc: loc}
}

// Put seeds a leave request.
func (r *LeaveRepository) Put(req leave.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, req)
}

func (r *LeaveRepository) HasApprovedLeave(_ context.Context, employeeID string, date time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.items {
		if req.EmployeeID == employeeID && req.Status == leave.StatusApproved && req.Covers(date, r.loc) {
			return true, nil
		}
	}
	return false, nil
}

func (r *LeaveRepository) ListApprovedInRange(_ context.Context, from, to time.Time) ([]leave.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []leave.Request
	for _, req := range r.items {
		if req.Status != leave.StatusApproved {
			continue
		}
		if req.EndDate.Before(from) || req.StartDate.After(to) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}
