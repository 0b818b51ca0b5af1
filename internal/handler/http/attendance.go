package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jget-crm/backoffice/internal/domain/attendance"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	attendanceservice "github.com/jget-crm/backoffice/internal/service/attendance"
)

type AttendanceHandler struct {
	attendanceService *attendanceservice.Service
}

func NewAttendanceHandler(attendanceService *attendanceservice.Service) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

func attendanceKind(w http.ResponseWriter, r *http.Request) (attendance.PersonKind, bool) {
	kind := attendance.PersonKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		response.BadRequest(w, "kind must be employee or student", nil)
		return "", false
	}
	return kind, true
}

func attendanceWindow(w http.ResponseWriter, r *http.Request) (time.Time, time.Time, bool) {
	from, err1 := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	to, err2 := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err1 != nil || err2 != nil || to.Before(from) {
		response.BadRequest(w, "from and to must be YYYY-MM-DD with from <= to", nil)
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// Toggle cycles a single attendance cell: absent -> present -> excused -> absent.
func (h *AttendanceHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req attendance.ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.Toggle(r.Context(), ac, req)
	if err != nil {
		slog.Error("Toggle attendance failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *AttendanceHandler) ListPeriod(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}
	kind, ok := attendanceKind(w, r)
	if !ok {
		return
	}
	from, to, ok := attendanceWindow(w, r)
	if !ok {
		return
	}

	resp, err := h.attendanceService.ListPeriod(r.Context(), kind, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *AttendanceHandler) ListPerson(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}
	kind, ok := attendanceKind(w, r)
	if !ok {
		return
	}
	from, to, ok := attendanceWindow(w, r)
	if !ok {
		return
	}

	resp, err := h.attendanceService.ListPerson(r.Context(), ac, kind, chi.URLParam(r, "personID"), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *AttendanceHandler) Totals(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}
	kind, ok := attendanceKind(w, r)
	if !ok {
		return
	}
	from, to, ok := attendanceWindow(w, r)
	if !ok {
		return
	}

	resp, err := h.attendanceService.Totals(r.Context(), ac, kind, chi.URLParam(r, "personID"), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
