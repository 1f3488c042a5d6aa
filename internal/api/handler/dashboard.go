package handler

import (
	"net/http"

	"github.com/gymmate/gymmate/internal/api/response"
	"github.com/gymmate/gymmate/internal/dashboard"
)

// DashboardHandler serves the home screen widgets.
type DashboardHandler struct {
	dashboardService *dashboard.Service
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Focus handles GET /v1/me/dashboard/focus.
func (h *DashboardHandler) Focus(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	focus, err := h.dashboardService.TodaysFocus(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, focus)
}

// Yesterday handles GET /v1/me/dashboard/yesterday.
func (h *DashboardHandler) Yesterday(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	perf, err := h.dashboardService.YesterdaysPerformance(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, perf)
}

// Fuel handles GET /v1/me/dashboard/fuel.
func (h *DashboardHandler) Fuel(w http.ResponseWriter, r *http.Request) {
	email, ok := currentUser(w, r)
	if !ok {
		return
	}
	fuel, err := h.dashboardService.TodaysFuel(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, fuel)
}
