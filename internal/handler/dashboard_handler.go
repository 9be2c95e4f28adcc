package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lelani/transport-backend/internal/middleware"
	"github.com/lelani/transport-backend/internal/response"
	"github.com/lelani/transport-backend/internal/service"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboardData godoc
// GET /api/v1/dashboard
// Returns school-wide counters, route loads and recent activity for
// administrators, or the caller's route counters for drivers.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}
