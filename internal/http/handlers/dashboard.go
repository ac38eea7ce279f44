package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/http/response"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GET /api/dashboard?year=
func (h *DashboardHandler) Summary(c *gin.Context) {
	year, err := intQuery(c, "year")
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out, err := h.dashboard.Summary(c.Request.Context(), year)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
