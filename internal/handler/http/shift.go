package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/shift"
	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/middleware"
	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/response"
	"github.com/shiftwise-hq/shiftwise-backend/internal/pkg/timeutil"
)

type ShiftHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Match(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
	loc          *time.Location
}

func NewShiftHandler(shiftService shift.ShiftService, loc *time.Location) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
		loc:          loc,
	}
}

// Create implements ShiftHandler. Admin only.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req shift.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	assignment, err := h.shiftService.CreateAssignment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift assigned", assignment)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.shiftService.GetAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, assignment)
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	from, to, ok := h.parseRange(w, r)
	if !ok {
		return
	}

	assignments, err := h.shiftService.ListAssignments(r.Context(), from, to, r.URL.Query().Get("employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, assignments)
}

// Cancel implements ShiftHandler. Admin only.
func (h *shiftHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	assignment, err := h.shiftService.CancelAssignment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift cancelled", assignment)
}

// Delete implements ShiftHandler. Admin only.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.shiftService.DeleteAssignment(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift deleted", nil)
}

// Match implements ShiftHandler: the read-side shift lookup, answering which
// assignment a clock-in right now would attach to.
func (h *shiftHandlerImpl) Match(w http.ResponseWriter, r *http.Request) {
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

	match, err := h.shiftService.FindShift(r.Context(), employeeID, date, r.URL.Query().Get("location"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if match == nil {
		response.Success(w, nil)
		return
	}

	resp := shift.NewAssignmentResponse(match.Assignment)
	response.Success(w, map[string]interface{}{
		"assignment":        resp,
		"location_mismatch": match.LocationMismatch,
	})
}

func (h *shiftHandlerImpl) parseRange(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	fromStr := r.URL.Query().Get("start_date")
	toStr := r.URL.Query().Get("end_date")

	from, err := time.ParseInLocation(timeutil.DateLayout, fromStr, h.loc)
	if err != nil {
		response.BadRequest(w, "start_date must be in YYYY-MM-DD format", nil)
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation(timeutil.DateLayout, toStr, h.loc)
	if err != nil {
		response.BadRequest(w, "end_date must be in YYYY-MM-DD format", nil)
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		response.BadRequest(w, "end_date must not be before start_date", nil)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
