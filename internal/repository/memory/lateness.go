package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
)

type LatenessRepository struct {
	mu    sync.RWMutex
	items map[string]lateness.Record
}

func NewLatenessRepository() *LatenessRepository {
	return &LatenessRepository{items: make(map[string]lateness.Record)}
}

func (r *LatenessRepository) Create(_ context.Context, record lateness.Record) (lateness.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	r.items[record.ID] = record
	return record, nil
}

func (r *LatenessRepository) GetByID(_ context.Context, id string) (lateness.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.items[id]
	if !ok {
		return lateness.Record{}, lateness.ErrRecordNotFound
	}
	return rec, nil
}

func (r *LatenessRepository) ExistsForEmployeeAndDate(_ context.Context, employeeID, date string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.items {
		if rec.EmployeeID == employeeID && rec.Date == date {
			return true, nil
		}
	}
	return false, nil
}

func (r *LatenessRepository) ListByDateRange(_ context.Context, from, to string, employeeIDs []string) ([]lateness.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idSet := toSet(employeeIDs)
	var out []lateness.Record
	for _, rec := range r.items {
		if rec.Date < from || rec.Date > to {
			continue
		}
		if len(idSet) > 0 && !idSet[rec.EmployeeID] {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (r *LatenessRepository) Update(_ context.Context, record lateness.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[record.ID]; !ok {
		return lateness.ErrRecordNotFound
	}
	r.items[record.ID] = record
	return nil
}
