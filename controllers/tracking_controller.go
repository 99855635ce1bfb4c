package controllers

import (
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// TrackingController serves the single public, unauthenticated lookup.
type TrackingController struct{ Svc *services.ShipmentService }

func NewTrackingController(svc *services.ShipmentService) *TrackingController {
	return &TrackingController{Svc: svc}
}

// GET /public/track?code=APE-...
func (h *TrackingController) Track(c *gin.Context) {
	view, err := h.Svc.FindByTrackingCode(c.Query("code"))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, view)
}
