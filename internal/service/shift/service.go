package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/employee"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/validator"
)

type ShiftServiceImpl struct {
	shifts    shift.ShiftRepository
	entries   timeentry.EntryRepository
	employees employee.EmployeeRepository
}

func NewShiftService(
	shifts shift.ShiftRepository,
	entries timeentry.EntryRepository,
	employees employee.EmployeeRepository,
) shift.ShiftService {
	return &ShiftServiceImpl{
		shifts:    shifts,
		entries:   entries,
		employees: employees,
	}
}

// FindShift implements shift.Matcher. At most one assignment is returned:
// first preference is an exact location match, otherwise the earliest
// qualifying assignment (repository ordering: start time, then ID). Duplicate
// active assignments on one date are a data-quality condition this tolerates
// but does not resolve. A nil result means the day is unscheduled, which is
// not an error.
func (s *ShiftServiceImpl) FindShift(ctx context.Context, employeeID string, date time.Time, preferredLocation string) (*shift.Match, error) {
	candidates, err := s.shifts.ListMatchableByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	if preferredLocation != "" {
		for _, c := range candidates {
			if c.Location == preferredLocation {
				return &shift.Match{Assignment: c}, nil
			}
		}
	}

	chosen := candidates[0]
	return &shift.Match{
		Assignment:       chosen,
		LocationMismatch: preferredLocation != "" && chosen.Location != preferredLocation,
	}, nil
}

// CreateAssignment implements shift.ShiftService.
func (s *ShiftServiceImpl) CreateAssignment(ctx context.Context, req shift.CreateAssignmentRequest) (shift.AssignmentResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.AssignmentResponse{}, err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return shift.AssignmentResponse{}, employee.ErrEmployeeNotFound
		}
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	date, _ := validator.IsValidDate(req.Date)

	created, err := s.shifts.Create(ctx, shift.Assignment{
		EmployeeID: req.EmployeeID,
		Date:       date,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
		WorkType:   req.WorkType,
		Status:     shift.StatusScheduled,
	})
	if err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return shift.NewAssignmentResponse(created), nil
}

// GetAssignment implements shift.ShiftService.
func (s *ShiftServiceImpl) GetAssignment(ctx context.Context, id string) (shift.AssignmentResponse, error) {
	assignment, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrAssignmentNotFound) {
			return shift.AssignmentResponse{}, shift.ErrAssignmentNotFound
		}
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}
	return shift.NewAssignmentResponse(assignment), nil
}

// ListAssignments implements shift.ShiftService.
func (s *ShiftServiceImpl) ListAssignments(ctx context.Context, from, to time.Time, employeeID string) ([]shift.AssignmentResponse, error) {
	var employeeIDs []string
	if employeeID != "" {
		employeeIDs = []string{employeeID}
	}

	assignments, err := s.shifts.ListByDateRange(ctx, from, to, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}

	responses := make([]shift.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, shift.NewAssignmentResponse(a))
	}
	return responses, nil
}

// CancelAssignment implements shift.ShiftService.
func (s *ShiftServiceImpl) CancelAssignment(ctx context.Context, id string) (shift.AssignmentResponse, error) {
	assignment, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrAssignmentNotFound) {
			return shift.AssignmentResponse{}, shift.ErrAssignmentNotFound
		}
		return shift.AssignmentResponse{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}

	if !assignment.Status.Active() {
		return shift.AssignmentResponse{}, shift.ErrAssignmentFinished
	}

	assignment.Status = shift.StatusCancelled
	if err := s.shifts.Update(ctx, assignment); err != nil {
		return shift.AssignmentResponse{}, fmt.Errorf("failed to cancel shift assignment: %w", err)
	}

	return shift.NewAssignmentResponse(assignment), nil
}

// DeleteAssignment implements shift.ShiftService. A linked time entry keeps
// its recorded times but loses the shift reference; clearing it is
// best-effort since the entry remains the attendance source of truth.
func (s *ShiftServiceImpl) DeleteAssignment(ctx context.Context, id string) error {
	assignment, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shift.ErrAssignmentNotFound) {
			return shift.ErrAssignmentNotFound
		}
		return fmt.Errorf("failed to get shift assignment: %w", err)
	}

	if err := s.shifts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete shift assignment: %w", err)
	}

	if assignment.TimeEntryID != nil {
		entry, err := s.entries.GetByID(ctx, *assignment.TimeEntryID)
		if err != nil {
			slog.Error("failed to load time entry while clearing shift link",
				"entry_id", *assignment.TimeEntryID, "shift_id", id, "error", err)
			return nil
		}
		entry.ShiftAssignmentID = nil
		entry.ScheduledHours = nil
		if err := s.entries.Update(ctx, entry); err != nil {
			slog.Error("failed to clear shift link on time entry",
				"entry_id", entry.ID, "shift_id", id, "error", err)
		}
	}

	return nil
}
