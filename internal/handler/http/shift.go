package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jget-crm/backoffice/internal/domain/shift"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	shiftservice "github.com/jget-crm/backoffice/internal/service/shift"
)

type ShiftHandler struct {
	shiftService *shiftservice.Service
}

func NewShiftHandler(shiftService *shiftservice.Service) *ShiftHandler {
	return &ShiftHandler{shiftService: shiftService}
}

func (h *ShiftHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req shift.CreateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.shiftService.Create(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create shift failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Shift created", resp)
}

func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.List(r.Context(), ac)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Calendar serves the month grid: ?branch_id=...&from=...&to=...
func (h *ShiftHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	branchID := r.URL.Query().Get("branch_id")
	if branchID == "" {
		response.BadRequest(w, "branch_id query parameter is required", nil)
		return
	}
	from, err1 := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	to, err2 := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err1 != nil || err2 != nil {
		response.BadRequest(w, "from and to must be YYYY-MM-DD", nil)
		return
	}

	resp, err := h.shiftService.ListCalendar(r.Context(), ac, branchID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.GetByID(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req shift.UpdateShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.shiftService.Update(r.Context(), ac, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.shiftService.Delete(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Shift deleted", nil)
}

type rosterRequest struct {
	EmployeeID string `json:"employee_id,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
}

func (h *ShiftHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}

	if err := h.shiftService.AddEmployee(r.Context(), ac, chi.URLParam(r, "id"), req.EmployeeID); err != nil {
		slog.Error("Add employee to shift failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee added to shift", nil)
}

func (h *ShiftHandler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.shiftService.RemoveEmployee(r.Context(), ac, chi.URLParam(r, "id"), chi.URLParam(r, "employeeID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee removed from shift", nil)
}

func (h *ShiftHandler) AddStudent(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req rosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.StudentID == "" {
		response.BadRequest(w, "student_id is required", nil)
		return
	}

	if err := h.shiftService.AddStudent(r.Context(), ac, chi.URLParam(r, "id"), req.StudentID); err != nil {
		slog.Error("Add student to shift failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Student added to shift", nil)
}

func (h *ShiftHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.shiftService.RemoveStudent(r.Context(), ac, chi.URLParam(r, "id"), chi.URLParam(r, "studentID")); err != nil {
		slog.Error("Remove student from shift failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Student removed from shift", nil)
}

func (h *ShiftHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.ListEmployees(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.ListStudents(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) ListAvailableEmployees(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.ListAvailableEmployees(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) ListAvailableStudents(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.ListAvailableStudents(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) FinancialBalance(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.GetFinancialBalance(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) CreateSquad(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req shift.CreateSquadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ShiftID = chi.URLParam(r, "id")

	resp, err := h.shiftService.CreateSquad(r.Context(), ac, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Squad created", resp)
}

func (h *ShiftHandler) ListSquads(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.shiftService.ListSquads(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

type updateSquadRequest struct {
	Name     *int    `json:"name,omitempty"`
	LeaderID *string `json:"leader_id,omitempty"`
}

func (h *ShiftHandler) UpdateSquad(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req updateSquadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.shiftService.UpdateSquad(r.Context(), ac, chi.URLParam(r, "squadID"), req.Name, req.LeaderID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *ShiftHandler) DeleteSquad(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.shiftService.DeleteSquad(r.Context(), ac, chi.URLParam(r, "squadID")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Squad deleted", nil)
}
