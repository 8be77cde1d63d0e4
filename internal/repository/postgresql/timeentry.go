package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/database"
)

type timeEntryRepository struct {
	db *database.DB
}

func NewTimeEntryRepository(db *database.DB) timeentry.EntryRepository {
	return &timeEntryRepository{db: db}
}

const entryColumns = `
	e.id, e.employee_id, e.date, e.clock_in, e.clock_out, e.breaks, e.on_break_start,
	e.status, e.hours_worked, e.scheduled_hours, e.variance, e.attendance_status,
	e.clock_in_location, e.clock_out_location, e.location, e.work_type,
	e.shift_assignment_id, e.created_at, e.updated_at
`

func scanEntry(row pgx.Row) (timeentry.Entry, error) {
	var e timeentry.Entry
	var breaksJSON, clockInLocJSON, clockOutLocJSON []byte

	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.Date, &e.ClockIn, &e.ClockOut, &breaksJSON, &e.OnBreakStart,
		&e.Status, &e.HoursWorked, &e.ScheduledHours, &e.Variance, &e.AttendanceStatus,
		&clockInLocJSON, &clockOutLocJSON, &e.Location, &e.WorkType,
		&e.ShiftAssignmentID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return timeentry.Entry{}, err
	}

	if len(breaksJSON) > 0 {
		if err := json.Unmarshal(breaksJSON, &e.Breaks); err != nil {
			return timeentry.Entry{}, fmt.Errorf("failed to unmarshal breaks: %w", err)
		}
	}
	if len(clockInLocJSON) > 0 {
		if err := json.Unmarshal(clockInLocJSON, &e.ClockInLocation); err != nil {
			return timeentry.Entry{}, fmt.Errorf("failed to unmarshal clock-in location: %w", err)
		}
	}
	if len(clockOutLocJSON) > 0 {
		if err := json.Unmarshal(clockOutLocJSON, &e.ClockOutLocation); err != nil {
			return timeentry.Entry{}, fmt.Errorf("failed to unmarshal clock-out location: %w", err)
		}
	}
	return e, nil
}

func marshalEntryJSON(e timeentry.Entry) (breaks, inLoc, outLoc []byte, err error) {
	breaks, err = json.Marshal(e.Breaks)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal breaks: %w", err)
	}
	if e.ClockInLocation != nil {
		inLoc, err = json.Marshal(e.ClockInLocation)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal clock-in location: %w", err)
		}
	}
	if e.ClockOutLocation != nil {
		outLoc, err = json.Marshal(e.ClockOutLocation)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to marshal clock-out location: %w", err)
		}
	}
	return breaks, inLoc, outLoc, nil
}

// Create implements timeentry.EntryRepository. The unique index on
// (employee_id, date) is the storage-level guard against duplicate entries
// slipping past the service's per-key lock.
func (r *timeEntryRepository) Create(ctx context.Context, entry timeentry.Entry) (timeentry.Entry, error) {
	q := GetQuerier(ctx, r.db)

	breaks, inLoc, outLoc, err := marshalEntryJSON(entry)
	if err != nil {
		return timeentry.Entry{}, err
	}

	query := `
		INSERT INTO time_entries (
			employee_id, date, clock_in, clock_out, breaks, on_break_start,
			status, hours_worked, scheduled_hours, variance, attendance_status,
			clock_in_location, clock_out_location, location, work_type, shift_assignment_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		) RETURNING id, created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		entry.EmployeeID,
		entry.Date,
		entry.ClockIn,
		entry.ClockOut,
		breaks,
		entry.OnBreakStart,
		entry.Status,
		entry.HoursWorked,
		entry.ScheduledHours,
		entry.Variance,
		entry.AttendanceStatus,
		inLoc,
		outLoc,
		entry.Location,
		entry.WorkType,
		entry.ShiftAssignmentID,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return timeentry.Entry{}, fmt.Errorf("failed to create time entry: %w", err)
	}

	return entry, nil
}

// GetByID implements timeentry.EntryRepository.
func (r *timeEntryRepository) GetByID(ctx context.Context, id string) (timeentry.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM time_entries e
		WHERE e.id = $1
	`

	entry, err := scanEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeentry.Entry{}, timeentry.ErrEntryNotFound
		}
		return timeentry.Entry{}, fmt.Errorf("failed to get time entry: %w", err)
	}

	return entry, nil
}

// GetByEmployeeAndDate implements timeentry.EntryRepository.
func (r *timeEntryRepository) GetByEmployeeAndDate(ctx context.Context, employeeID, date string) (*timeentry.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM time_entries e
		WHERE e.employee_id = $1
		  AND e.date = $2
		LIMIT 1
	`

	entry, err := scanEntry(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get time entry: %w", err)
	}

	return &entry, nil
}

// Update implements timeentry.EntryRepository.
func (r *timeEntryRepository) Update(ctx context.Context, entry timeentry.Entry) error {
	q := GetQuerier(ctx, r.db)

	breaks, inLoc, outLoc, err := marshalEntryJSON(entry)
	if err != nil {
		return err
	}

	query := `
		UPDATE time_entries
		SET clock_in = $2, clock_out = $3, breaks = $4, on_break_start = $5,
			status = $6, hours_worked = $7, scheduled_hours = $8, variance = $9,
			attendance_status = $10, clock_in_location = $11, clock_out_location = $12,
			location = $13, work_type = $14, shift_assignment_id = $15,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		entry.ID,
		entry.ClockIn,
		entry.ClockOut,
		breaks,
		entry.OnBreakStart,
		entry.Status,
		entry.HoursWorked,
		entry.ScheduledHours,
		entry.Variance,
		entry.AttendanceStatus,
		inLoc,
		outLoc,
		entry.Location,
		entry.WorkType,
		entry.ShiftAssignmentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrEntryNotFound
	}
	return nil
}

// Delete implements timeentry.EntryRepository.
func (r *timeEntryRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete time entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return timeentry.ErrEntryNotFound
	}
	return nil
}

// ListByDateRange implements timeentry.EntryRepository.
func (r *timeEntryRepository) ListByDateRange(ctx context.Context, from, to string, employeeIDs []string) ([]timeentry.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM time_entries e
		WHERE e.date BETWEEN $1 AND $2
	`
	args := []interface{}{from, to}

	if len(employeeIDs) > 0 {
		query += ` AND e.employee_id = ANY($3)`
		args = append(args, employeeIDs)
	}
	query += ` ORDER BY e.date, e.employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListOpenBefore implements timeentry.EntryRepository.
func (r *timeEntryRepository) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]timeentry.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + entryColumns + `
		FROM time_entries e
		WHERE e.status IN ($1, $2)
		  AND e.clock_in < $3
		ORDER BY e.clock_in
	`

	rows, err := q.Query(ctx, query, timeentry.StatusClockedIn, timeentry.StatusOnBreak, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list open time entries: %w", err)
	}
	defer rows.Close()

	var entries []timeentry.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
