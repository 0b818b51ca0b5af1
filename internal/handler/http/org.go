package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jget-crm/backoffice/internal/domain/org"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	orgservice "github.com/jget-crm/backoffice/internal/service/org"
)

type OrgHandler struct {
	orgService *orgservice.Service
}

func NewOrgHandler(orgService *orgservice.Service) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

func (h *OrgHandler) CreateCity(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req org.CreateCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.orgService.CreateCity(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create city failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "City created", resp)
}

func (h *OrgHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	resp, err := h.orgService.ListCities(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *OrgHandler) GetCity(w http.ResponseWriter, r *http.Request) {
	resp, err := h.orgService.GetCity(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *OrgHandler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req org.CreateCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.orgService.UpdateCity(r.Context(), ac, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *OrgHandler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.orgService.DeleteCity(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "City deleted", nil)
}

func (h *OrgHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req org.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.orgService.CreateBranch(r.Context(), ac, req)
	if err != nil {
		slog.Error("Create branch failed", "error", err)
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Branch created", resp)
}

func (h *OrgHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.orgService.ListBranches(r.Context(), ac)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *OrgHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.orgService.GetBranch(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *OrgHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	var req org.UpdateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	resp, err := h.orgService.UpdateBranch(r.Context(), ac, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

func (h *OrgHandler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.orgService.DeleteBranch(r.Context(), ac, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Branch deleted", nil)
}

func (h *OrgHandler) GetBranchStatistics(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.orgService.GetBranchStatistics(r.Context(), ac, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
