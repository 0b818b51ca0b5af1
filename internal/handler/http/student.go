package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jget-crm/backoffice/internal/domain/student"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	studentservice "github.com/jget-crm/backoffice/internal/service/student"
)

type StudentHandler struct {
	studentService *studentservice.Service
}

func NewStudentHandler(studentService *studentservice.Service) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req student.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.studentService.Create(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create student failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Student created", resp)
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.studentService.List(r.Context(), ac)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *StudentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.studentService.GetByID(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req student.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.studentService.Update(r.Context(), ac, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.studentService.Delete(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		slog.Error("Delete student failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Student deleted", nil)
}

func (h *StudentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req student.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.studentService.CreatePayment(r.Context(), ac, chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Create payment failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Payment recorded", resp)
}

func (h *StudentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var shiftID *string
	if v := r.URL.Query().Get("shift_id"); v != "" {
		shiftID = &v
	}

	resp, err := h.studentService.ListPayments(r.Context(), ac, chi.URLParam(r, "id"), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

type updatePaymentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Comment string          `json:"comment"`
}

func (h *StudentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.studentService.UpdatePayment(r.Context(), ac, chi.URLParam(r, "paymentID"), req.Amount, req.Comment)
	if err != nil {
		slog.Error("Update payment failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *StudentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.studentService.DeletePayment(r.Context(), ac, chi.URLParam(r, "paymentID")); err != nil {
		slog.Error("Delete payment failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Payment deleted", nil)
}

func (h *StudentHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req student.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.studentService.Deposit(r.Context(), ac, chi.URLParam(r, "id"), req)
	if err != nil {
		slog.Error("Create deposit failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Deposit recorded", resp)
}

// GetBalance returns the current balance and recent ledger entries.
// ?limit=N caps the history, 0 means all.
func (h *StudentHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.BadRequest(w, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	balance, entries, err := h.studentService.GetBalance(r.Context(), ac, chi.URLParam(r, "id"), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string]any{
		"balance": balance,
		"entries": entries,
	})
}

func (h *StudentHandler) CheckBalance(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	shiftID := r.URL.Query().Get("shift_id")
	if shiftID == "" {
		response.BadRequest(w, "shift_id query parameter is required", nil)
		return
	}

	resp, err := h.studentService.CheckBalance(r.Context(), ac, chi.URLParam(r, "id"), shiftID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
