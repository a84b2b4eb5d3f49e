package handler

import (
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Overview GET /dashboard
func (h *DashboardHandler) Overview(c *gin.Context) {
	stats, err := h.svc.GetOverview(c.Request.Context())
	if err != nil {
		InternalError(c, "dashboard: "+err.Error())
		return
	}
	Success(c, stats)
}
