package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/tasknexus/tasknexus-api/internal/errors"
	"github.com/tasknexus/tasknexus-api/internal/middleware"
	"github.com/tasknexus/tasknexus-api/internal/services"
)

// AnalyticsHandler serves the dashboard aggregates.
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// Dashboard returns aggregate counts across the caller's workspaces.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.analyticsService.DashboardStats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
