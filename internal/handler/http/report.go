package http

import (
	"net/http"
	"strings"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/report"
	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/response"
)

type ReportHandler interface {
	Lateness(w http.ResponseWriter, r *http.Request)
	Overtime(w http.ResponseWriter, r *http.Request)
	Absence(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{reportService: reportService}
}

func rangeFromQuery(r *http.Request) report.RangeRequest {
	req := report.RangeRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if ids := r.URL.Query().Get("employee_ids"); ids != "" {
		req.EmployeeIDs = strings.Split(ids, ",")
	}
	return req
}

// Lateness implements ReportHandler.
func (h *reportHandlerImpl) Lateness(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.LatenessReport(r.Context(), rangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Overtime implements ReportHandler.
func (h *reportHandlerImpl) Overtime(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.OvertimeReport(r.Context(), rangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Absence implements ReportHandler.
func (h *reportHandlerImpl) Absence(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.AbsenceReport(r.Context(), rangeFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
