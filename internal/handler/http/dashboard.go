package http

import (
	"net/http"

	"github.com/jget-crm/backoffice/internal/handler/http/response"
	dashboardservice "github.com/jget-crm/backoffice/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService *dashboardservice.Service
}

func NewDashboardHandler(dashboardService *dashboardservice.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) NetworkStatistics(w http.ResponseWriter, r *http.Request) {
	ac, ok := actor(w, r)
	if !ok {
		return
	}

	resp, err := h.dashboardService.GetNetworkStatistics(r.Context(), ac)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
