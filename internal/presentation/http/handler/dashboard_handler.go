package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nivaancare/clinic-api/internal/application/service"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles getting dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	// Super admins see aggregate numbers across all centers
	ctx := c.Request.Context()
	if IsSuperAdmin(c) {
		ctx = infraRepo.WithSkipCenterScope(ctx, true)
	}

	stats, err := h.dashboardService.GetDashboardStats(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
