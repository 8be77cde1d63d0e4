package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/database"
)

type latenessRepository struct {
	db *database.DB
}

func NewLatenessRepository(db *database.DB) lateness.LatenessRepository {
	return &latenessRepository{db: db}
}

const latenessColumns = `
	l.id, l.employee_id, l.date, l.scheduled_start, l.actual_start, l.minutes_late,
	l.shift_assignment_id, l.excused, l.excused_by, l.excuse_reason, l.excused_at,
	l.recorded_by, l.recorded_by_role, l.created_at
`

func scanLateness(row pgx.Row) (lateness.Record, error) {
	var rec lateness.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.Date, &rec.ScheduledStart, &rec.ActualStart, &rec.MinutesLate,
		&rec.ShiftAssignmentID, &rec.Excused, &rec.ExcusedBy, &rec.ExcuseReason, &rec.ExcusedAt,
		&rec.RecordedBy, &rec.RecordedByRole, &rec.CreatedAt,
	)
	return rec, err
}

// Create implements lateness.LatenessRepository.
func (r *latenessRepository) Create(ctx context.Context, record lateness.Record) (lateness.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO lateness_records (
			employee_id, date, scheduled_start, actual_start, minutes_late,
			shift_assignment_id, recorded_by, recorded_by_role
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		record.EmployeeID,
		record.Date,
		record.ScheduledStart,
		record.ActualStart,
		record.MinutesLate,
		record.ShiftAssignmentID,
		record.RecordedBy,
		record.RecordedByRole,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return lateness.Record{}, fmt.Errorf("failed to create lateness record: %w", err)
	}

	return record, nil
}

// GetByID implements lateness.LatenessRepository.
func (r *latenessRepository) GetByID(ctx context.Context, id string) (lateness.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + latenessColumns + `
		FROM lateness_records l
		WHERE l.id = $1
	`

	record, err := scanLateness(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return lateness.Record{}, lateness.ErrRecordNotFound
		}
		return lateness.Record{}, fmt.Errorf("failed to get lateness record: %w", err)
	}

	return record, nil
}

// ExistsForEmployeeAndDate implements lateness.LatenessRepository.
func (r *latenessRepository) ExistsForEmployeeAndDate(ctx context.Context, employeeID, date string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM lateness_records WHERE employee_id = $1 AND date = $2)`,
		employeeID, date,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check lateness record existence: %w", err)
	}
	return exists, nil
}

// ListByDateRange implements lateness.LatenessRepository.
func (r *latenessRepository) ListByDateRange(ctx context.Context, from, to string, employeeIDs []string) ([]lateness.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + latenessColumns + `
		FROM lateness_records l
		WHERE l.date BETWEEN $1 AND $2
	`
	args := []interface{}{from, to}

	if len(employeeIDs) > 0 {
		query += ` AND l.employee_id = ANY($3)`
		args = append(args, employeeIDs)
	}
	query += ` ORDER BY l.date, l.employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lateness records: %w", err)
	}
	defer rows.Close()

	var records []lateness.Record
	for rows.Next() {
		rec, err := scanLateness(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lateness record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Update implements lateness.LatenessRepository. Only excusal fields are
// writable; the lateness facts are immutable after creation.
func (r *latenessRepository) Update(ctx context.Context, record lateness.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE lateness_records
		SET excused = $2, excused_by = $3, excuse_reason = $4, excused_at = $5
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID,
		record.Excused,
		record.ExcusedBy,
		record.ExcuseReason,
		record.ExcusedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update lateness record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lateness.ErrRecordNotFound
	}
	return nil
}
