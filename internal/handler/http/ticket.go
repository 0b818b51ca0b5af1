package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jget-crm/backoffice/internal/domain/ticket"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	ticketservice "github.com/jget-crm/backoffice/internal/service/ticket"
)

type TicketHandler struct {
	ticketService *ticketservice.Service
}

func NewTicketHandler(ticketService *ticketservice.Service) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req ticket.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.ticketService.Create(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create ticket failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Ticket created", resp)
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.ticketService.List(r.Context(), ac)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// ListMine also clears the caller's unread-response flags.
func (h *TicketHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.ticketService.ListMine(r.Context(), ac)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *TicketHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	count, err := h.ticketService.CountUnread(r.Context(), ac)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string]int{"unread_count": count})
}

func (h *TicketHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.ticketService.GetByID(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req ticket.UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.ticketService.Update(r.Context(), ac, req)
	if err != nil {
		slog.Error("Update ticket failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.ticketService.Delete(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Ticket deleted", nil)
}
