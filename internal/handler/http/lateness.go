package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shiftwise-hq/shiftwise-backend/internal/domain/lateness"
	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/middleware"
	"github.com/shiftwise-hq/shiftwise-backend/internal/handler/http/response"
)

type LatenessHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Excuse(w http.ResponseWriter, r *http.Request)
}

type latenessHandlerImpl struct {
	latenessService lateness.LatenessService
}

func NewLatenessHandler(latenessService lateness.LatenessService) LatenessHandler {
	return &latenessHandlerImpl{latenessService: latenessService}
}

// List implements LatenessHandler.
func (h *latenessHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := lateness.ListFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}

	records, err := h.latenessService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Excuse implements LatenessHandler. Admin only; the excusing identity comes
// from the token.
func (h *latenessHandlerImpl) Excuse(w http.ResponseWriter, r *http.Request) {
	var req lateness.ExcuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ExcusedBy = middleware.EmployeeID(r)

	record, err := h.latenessService.Excuse(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Lateness excused", record)
}
