package controllers

import (
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type RiderController struct{ Svc *services.PositionService }

func NewRiderController(svc *services.PositionService) *RiderController {
	return &RiderController{Svc: svc}
}

// POST /rider/positions — a rider reports their own GPS sample. The rider id
// comes from the session, never from the body.
func (h *RiderController) PostPosition(c *gin.Context) {
	var sample services.PositionSample
	if err := c.ShouldBindJSON(&sample); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	riderID := utils.CurrentUserID(c)
	p, err := h.Svc.Record(currentActor(c), riderID, sample)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, p)
}
