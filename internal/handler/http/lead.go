package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jget-crm/backoffice/internal/domain/lead"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	leadservice "github.com/jget-crm/backoffice/internal/service/lead"
)

type LeadHandler struct {
	leadService *leadservice.Service
}

func NewLeadHandler(leadService *leadservice.Service) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req lead.CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.leadService.Create(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create lead failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Lead created", resp)
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}

	resp, err := h.leadService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := actor(w, r); !ok {
		return
	}

	resp, err := h.leadService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req lead.UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.leadService.Update(r.Context(), ac, req)
	if err != nil {
		slog.Error("Update lead failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.leadService.Delete(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Lead deleted", nil)
}
