package handler

import (
	"net/http"
	"time"

	"clinic-inventory/internal/session"
	"clinic-inventory/internal/usecase"
	"clinic-inventory/pkg/response"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
	sessions         *session.Service
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase, sessions *session.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
		sessions:         sessions,
	}
}

// Dashboard returns the inventory stats and the newest messages, plus any
// pending notices.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardUsecase.Stats(r.Context(), time.Now())
	if err != nil {
		response.InternalServerError(w, "Failed to load dashboard")
		return
	}

	stats.Notices = drainFlashes(r, h.sessions)
	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", stats)
}
