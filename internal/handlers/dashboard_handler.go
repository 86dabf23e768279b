package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuscms/course-service/internal/services"
	"github.com/campuscms/course-service/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service services.DashboardService
}

func NewDashboardHandler(service services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Stats returns public platform statistics
// @Summary Public platform statistics
// @Tags stats
// @Produce json
// @Success 200 {object} services.PublicStats
// @Router /stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.PublicStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Dashboard returns the dashboard for the caller's role
// @Summary Role dashboard
// @Tags stats
// @Produce json
// @Success 200 {object} services.DashboardResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	actor := currentUser(c)
	h.LogRequest(c, "Building dashboard", "user_id", actor.ID, "role", actor.Role)

	resp, err := h.service.ForUser(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
