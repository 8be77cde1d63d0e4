package report

import "context"

// ReportService replays the attendance classifier over historical data. Runs
// read closed-day data and may execute concurrently with live reconciliation;
// a report taken mid-shift may show a provisional, not-yet-closed entry.
type ReportService interface {
	// LatenessReport aggregates Late-classified days per employee and
	// surfaces grace-late clock-ins missing an audit record.
	LatenessReport(ctx context.Context, req RangeRequest) (LatenessReport, error)

	// OvertimeReport aggregates overtime hours and cost per employee.
	OvertimeReport(ctx context.Context, req RangeRequest) (OvertimeReport, error)

	// AbsenceReport aggregates Absent-classified days per employee,
	// suppressing days covered by approved leave.
	AbsenceReport(ctx context.Context, req RangeRequest) (AbsenceReport, error)
}
