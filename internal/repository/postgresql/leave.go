package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/leave"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// HasApprovedLeave implements leave.LeaveRepository.
func (r *leaveRepository) HasApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status = $2
			  AND start_date <= $3
			  AND end_date >= $3
		)
	`, employeeID, leave.StatusApproved, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}
	return exists, nil
}

// ListApprovedInRange implements leave.LeaveRepository.
func (r *leaveRepository) ListApprovedInRange(ctx context.Context, from, to time.Time) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, start_date, end_date, leave_type, status, created_at, updated_at
		FROM leave_requests
		WHERE status = $1
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY employee_id, start_date
	`

	rows, err := q.Query(ctx, query, leave.StatusApproved, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.StartDate, &req.EndDate,
			&req.LeaveType, &req.Status, &req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
