package controllers

import (
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct{ Svc *services.AnalyticsService }

func NewAnalyticsController(svc *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Svc: svc}
}

// GET /analytics/overview (admin/agent)
func (h *AnalyticsController) Overview(c *gin.Context) {
	overview, err := h.Svc.Overview(currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, overview)
}
