package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jget-crm/backoffice/internal/domain/employee"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	employeeservice "github.com/jget-crm/backoffice/internal/service/employee"
)

type EmployeeHandler struct {
	employeeService *employeeservice.Service
}

func NewEmployeeHandler(employeeService *employeeservice.Service) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.employeeService.Create(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create employee failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee created", resp)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var branchID *string
	if v := r.URL.Query().Get("branch_id"); v != "" {
		branchID = &v
	}

	resp, err := h.employeeService.List(r.Context(), ac, branchID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.employeeService.GetByID(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.employeeService.Update(r.Context(), ac, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// UpdateRate changes the employee rate and recalculates unpaid salaries.
func (h *EmployeeHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req employee.UpdateRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.employeeService.UpdateRate(r.Context(), ac, chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Update employee rate failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Rate updated and salaries recalculated", resp)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.employeeService.Delete(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted", nil)
}

func (h *EmployeeHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req employee.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.employeeService.CreatePosition(r.Context(), ac, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Position created", resp)
}

func (h *EmployeeHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	resp, err := h.employeeService.ListPositions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *EmployeeHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req employee.CreatePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.employeeService.UpdatePosition(r.Context(), ac, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *EmployeeHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.employeeService.DeletePosition(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Position deleted", nil)
}
