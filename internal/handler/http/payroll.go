package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jget-crm/backoffice/internal/domain/payroll"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	payrollservice "github.com/jget-crm/backoffice/internal/service/payroll"
)

type PayrollHandler struct {
	payrollService *payrollservice.Service
}

func NewPayrollHandler(payrollService *payrollservice.Service) *PayrollHandler {
	return &PayrollHandler{payrollService: payrollService}
}

func (h *PayrollHandler) CreateSalary(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req payroll.CreateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.CreateSalary(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create salary failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Salary created", resp)
}

func (h *PayrollHandler) ListSalaries(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	unpaidOnly := r.URL.Query().Get("unpaid") == "true"

	resp, err := h.payrollService.ListSalaries(r.Context(), ac, unpaidOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *PayrollHandler) GetSalary(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.payrollService.GetSalary(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *PayrollHandler) UpdateSalary(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req payroll.UpdateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.payrollService.UpdateSalary(r.Context(), ac, req)
	if err != nil {
		slog.Error("Update salary failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *PayrollHandler) DeleteSalary(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.DeleteSalary(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary deleted", nil)
}

func (h *PayrollHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req payroll.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.payrollService.CreateExpense(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create expense failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Expense created", resp)
}

func (h *PayrollHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var shiftID *string
	if v := r.URL.Query().Get("shift_id"); v != "" {
		shiftID = &v
	}

	resp, err := h.payrollService.ListExpenses(r.Context(), ac, shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *PayrollHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req payroll.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.payrollService.UpdateExpense(r.Context(), ac, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *PayrollHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.payrollService.DeleteExpense(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Expense deleted", nil)
}
