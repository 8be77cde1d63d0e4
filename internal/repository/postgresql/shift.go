package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	s.id, s.employee_id, s.date, s.start_time, s.end_time, s.location, s.work_type, s.status,
	s.time_entry_id, s.actual_start_time, s.actual_end_time,
	s.swap_requested_by, s.swap_target_employee_id, s.swap_status, s.swap_requested_at,
	s.created_at, s.updated_at
`

func scanShift(row pgx.Row) (shift.Assignment, error) {
	var a shift.Assignment
	var swapRequestedBy, swapTarget, swapStatus *string
	var swapRequestedAt *time.Time

	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &a.StartTime, &a.EndTime, &a.Location, &a.WorkType, &a.Status,
		&a.TimeEntryID, &a.ActualStartTime, &a.ActualEndTime,
		&swapRequestedBy, &swapTarget, &swapStatus, &swapRequestedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return shift.Assignment{}, err
	}

	if swapRequestedBy != nil {
		a.SwapRequest = &shift.SwapRequest{
			RequestedBy:      *swapRequestedBy,
			TargetEmployeeID: *swapTarget,
			Status:           *swapStatus,
			RequestedAt:      *swapRequestedAt,
		}
	}
	return a, nil
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, assignment shift.Assignment) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_assignments (
			employee_id, date, start_time, end_time, location, work_type, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		assignment.EmployeeID,
		assignment.Date,
		assignment.StartTime,
		assignment.EndTime,
		assignment.Location,
		assignment.WorkType,
		assignment.Status,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt)

	if err != nil {
		return shift.Assignment{}, fmt.Errorf("failed to create shift assignment: %w", err)
	}

	return assignment, nil
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shift_assignments s
		WHERE s.id = $1
	`

	assignment, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Assignment{}, shift.ErrAssignmentNotFound
		}
		return shift.Assignment{}, fmt.Errorf("failed to get shift assignment: %w", err)
	}

	return assignment, nil
}

// ListMatchableByEmployeeAndDate implements shift.ShiftRepository. Ordering
// by start time then ID keeps the matcher deterministic.
func (r *shiftRepository) ListMatchableByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shift_assignments s
		WHERE s.employee_id = $1
		  AND s.date = $2
		  AND s.status IN ($3, $4)
		ORDER BY s.start_time, s.id
	`

	rows, err := q.Query(ctx, query, employeeID, date, shift.StatusScheduled, shift.StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.Assignment
	for rows.Next() {
		a, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// ListByDateRange implements shift.ShiftRepository.
func (r *shiftRepository) ListByDateRange(ctx context.Context, from, to time.Time, employeeIDs []string) ([]shift.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + shiftColumns + `
		FROM shift_assignments s
		WHERE s.date BETWEEN $1 AND $2
	`
	args := []interface{}{from, to}

	if len(employeeIDs) > 0 {
		query += ` AND s.employee_id = ANY($3)`
		args = append(args, employeeIDs)
	}
	query += ` ORDER BY s.date, s.start_time, s.id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift assignments: %w", err)
	}
	defer rows.Close()

	var assignments []shift.Assignment
	for rows.Next() {
		a, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, assignment shift.Assignment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET employee_id = $2, date = $3, start_time = $4, end_time = $5,
			location = $6, work_type = $7, status = $8,
			time_entry_id = $9, actual_start_time = $10, actual_end_time = $11,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		assignment.ID,
		assignment.EmployeeID,
		assignment.Date,
		assignment.StartTime,
		assignment.EndTime,
		assignment.Location,
		assignment.WorkType,
		assignment.Status,
		assignment.TimeEntryID,
		assignment.ActualStartTime,
		assignment.ActualEndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}

// UpdateEntryLink implements shift.ShiftRepository.
func (r *shiftRepository) UpdateEntryLink(ctx context.Context, id string, status shift.Status, timeEntryID *string, actualStart, actualEnd *time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shift_assignments
		SET status = $2, time_entry_id = $3, actual_start_time = $4, actual_end_time = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, status, timeEntryID, actualStart, actualEnd)
	if err != nil {
		return fmt.Errorf("failed to update shift entry link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shift_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrAssignmentNotFound
	}
	return nil
}
