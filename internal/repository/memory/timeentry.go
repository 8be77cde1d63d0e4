package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
)

type EntryRepository struct {
	mu    sync.RWMutex
	items map[string]timeentry.Entry
}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{items: make(map[string]timeentry.Entry)}
}

func (r *EntryRepository) Create(_ context.Context, entry timeentry.Entry) (timeentry.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	r.items[entry.ID] = entry
	return entry, nil
}

func (r *EntryRepository) GetByID(_ context.Context, id string) (timeentry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[id]
	if !ok {
		return timeentry.Entry{}, timeentry.ErrEntryNotFound
	}
	return e, nil
}

func (r *EntryRepository) GetByEmployeeAndDate(_ context.Context, employeeID, date string) (*timeentry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.items {
		if e.EmployeeID == employeeID && e.Date == date {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *EntryRepository) Update(_ context.Context, entry timeentry.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[entry.ID]; !ok {
		return timeentry.ErrEntryNotFound
	}
	entry.UpdatedAt = time.Now()
	r.items[entry.ID] = entry
	return nil
}

func (r *EntryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return timeentry.ErrEntryNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *EntryRepository) ListByDateRange(_ context.Context, from, to string, employeeIDs []string) ([]timeentry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idSet := toSet(employeeIDs)
	var out []timeentry.Entry
	for _, e := range r.items {
		if e.Date < from || e.Date > to {
			continue
		}
		if len(idSet) > 0 && !idSet[e.EmployeeID] {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (r *EntryRepository) ListOpenBefore(_ context.Context, cutoff time.Time) ([]timeentry.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []timeentry.Entry
	for _, e := range r.items {
		if e.Status.Open() && e.ClockIn.Before(cutoff) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out, nil
}
