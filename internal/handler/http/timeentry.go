package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/timeentry"
	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/middleware"
	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/response"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
)

type TimeEntryHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	StartBreak(w http.ResponseWriter, r *http.Request)
	ResumeWork(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	ForceReset(w http.ResponseWriter, r *http.Request)
	ManualEntry(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	DayStatus(w http.ResponseWriter, r *http.Request)
}

type timeEntryHandlerImpl struct {
	entryService timeentry.EntryService
	loc          *time.Location
}

func NewTimeEntryHandler(entryService timeentry.EntryService, loc *time.Location) TimeEntryHandler {
	return &timeEntryHandlerImpl{
		entryService: entryService,
		loc:          loc,
	}
}

// ClockIn implements TimeEntryHandler. The employee ID always comes from the
// access token, never from the body.
func (h *timeEntryHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req timeentry.ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = middleware.EmployeeID(r)

	entry, err := h.entryService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", entry)
}

// StartBreak implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) StartBreak(w http.ResponseWriter, r *http.Request) {
	var req timeentry.BreakRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.EmployeeID = middleware.EmployeeID(r)

	entry, err := h.entryService.StartBreak(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Break started", entry)
}

// ResumeWork implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) ResumeWork(w http.ResponseWriter, r *http.Request) {
	req := timeentry.BreakRequest{EmployeeID: middleware.EmployeeID(r)}

	entry, err := h.entryService.ResumeWork(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Work resumed", entry)
}

// ClockOut implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req timeentry.ClockOutRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.EmployeeID = middleware.EmployeeID(r)

	entry, err := h.entryService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", entry)
}

// ForceReset implements TimeEntryHandler. Admin only.
func (h *timeEntryHandlerImpl) ForceReset(w http.ResponseWriter, r *http.Request) {
	var req timeentry.ForceResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.entryService.ForceReset(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// ManualEntry implements TimeEntryHandler. Admin only.
func (h *timeEntryHandlerImpl) ManualEntry(w http.ResponseWriter, r *http.Request) {
	var req timeentry.ManualEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	entry, err := h.entryService.ManualEntry(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry recorded", entry)
}

// Delete implements TimeEntryHandler. Admin only.
func (h *timeEntryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	if err := h.entryService.DeleteEntry(r.Context(), entryID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry deleted", nil)
}

// Get implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")

	entry, err := h.entryService.GetEntry(r.Context(), entryID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entry)
}

// DayStatus implements TimeEntryHandler. Defaults to the caller's own record;
// an explicit employee_id query is intended for managers.
func (h *timeEntryHandlerImpl) DayStatus(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		employeeID = middleware.EmployeeID(r)
	}

	dateStr := r.URL.Query().Get("date")
	var date time.Time
	if dateStr == "" {
		date = time.Now().In(h.loc)
	} else {
		var err error
		date, err = time.ParseInLocation(timeutil.DateLayout, dateStr, h.loc)
		if err != nil {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
	}

	status, err := h.entryService.GetDayStatus(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}
