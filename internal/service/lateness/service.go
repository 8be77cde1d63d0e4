package lateness

import (
	"context"
	"errors"
	"fmt"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
)

type LatenessServiceImpl struct {
	records lateness.LatenessRepository
	clock   timeutil.Clock
}

func NewLatenessService(records lateness.LatenessRepository, clock timeutil.Clock) lateness.LatenessService {
	return &LatenessServiceImpl{
		records: records,
		clock:   clock,
	}
}

// List implements lateness.LatenessService.
func (s *LatenessServiceImpl) List(ctx context.Context, filter lateness.ListFilter) ([]lateness.RecordResponse, error) {
	var employeeIDs []string
	if filter.EmployeeID != "" {
		employeeIDs = []string{filter.EmployeeID}
	}

	records, err := s.records.ListByDateRange(ctx, filter.StartDate, filter.EndDate, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list lateness records: %w", err)
	}

	responses := make([]lateness.RecordResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, lateness.NewRecordResponse(r))
	}
	return responses, nil
}

// Excuse implements lateness.LatenessService. Excusal is a one-way
// transition; the underlying lateness facts are never rewritten.
func (s *LatenessServiceImpl) Excuse(ctx context.Context, req lateness.ExcuseRequest) (lateness.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return lateness.RecordResponse{}, err
	}

	record, err := s.records.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, lateness.ErrRecordNotFound) {
			return lateness.RecordResponse{}, lateness.ErrRecordNotFound
		}
		return lateness.RecordResponse{}, fmt.Errorf("failed to get lateness record: %w", err)
	}

	if record.Excused {
		return lateness.RecordResponse{}, lateness.ErrAlreadyExcused
	}

	now := s.clock.Now()
	record.Excused = true
	record.ExcusedBy = &req.ExcusedBy
	record.ExcuseReason = &req.Reason
	record.ExcusedAt = &now

	if err := s.records.Update(ctx, record); err != nil {
		return lateness.RecordResponse{}, fmt.Errorf("failed to update lateness record: %w", err)
	}

	return lateness.NewRecordResponse(record), nil
}
