package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
)

type EmployeeRepository struct {
	mu    sync.RWMutex
	items map[string]employee.Employee
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{items: make(map[string]employee.Employee)}
}

// Put seeds an employee, replacing any existing record with the same ID.
func (r *EmployeeRepository) Put(emp employee.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[emp.ID] = emp
}

func (r *EmployeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	emp, ok := r.items[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *EmployeeRepository) ListActive(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []employee.Employee
	for _, emp := range r.items {
		if emp.Active() {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}
