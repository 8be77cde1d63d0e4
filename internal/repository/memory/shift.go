// Package memory provides in-memory repository implementations backing the
// service tests. Behavior mirrors the postgresql package, including matcher
// ordering and not-found sentinels.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
)

type ShiftRepository struct {
	mu    sync.RWMutex
	items map[string]shift.Assignment
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{items: make(map[string]shift.Assignment)}
}

func (r *ShiftRepository) Create(_ context.Context, assignment shift.Assignment) (shift.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if assignment.ID == "" {
		assignment.ID = uuid.New().String()
	}
	now := time.Now()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	r.items[assignment.ID] = assignment
	return assignment, nil
}

func (r *ShiftRepository) GetByID(_ context.Context, id string) (shift.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[id]
	if !ok {
		return shift.Assignment{}, shift.ErrAssignmentNotFound
	}
	return a, nil
}

func (r *ShiftRepository) ListMatchableByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) ([]shift.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := date.Format(timeutil.DateLayout)
	var out []shift.Assignment
	for _, a := range r.items {
		if a.EmployeeID == employeeID && a.Date.Format(timeutil.DateLayout) == key && a.Status.Matchable() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ShiftRepository) ListByDateRange(_ context.Context, from, to time.Time, employeeIDs []string) ([]shift.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idSet := toSet(employeeIDs)
	var out []shift.Assignment
	for _, a := range r.items {
		if a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		if len(idSet) > 0 && !idSet[a.EmployeeID] {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ShiftRepository) Update(_ context.Context, assignment shift.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[assignment.ID]; !ok {
		return shift.ErrAssignmentNotFound
	}
	assignment.UpdatedAt = time.Now()
	r.items[assignment.ID] = assignment
	return nil
}

func (r *ShiftRepository) UpdateEntryLink(_ context.Context, id string, status shift.Status, timeEntryID *string, actualStart, actualEnd *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return shift.ErrAssignmentNotFound
	}
	a.Status = status
	a.TimeEntryID = timeEntryID
	a.ActualStartTime = actualStart
	a.ActualEndTime = actualEnd
	a.UpdatedAt = time.Now()
	r.items[id] = a
	return nil
}

func (r *ShiftRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return shift.ErrAssignmentNotFound
	}
	delete(r.items, id)
	return nil
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
