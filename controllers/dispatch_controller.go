package controllers

import (
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type DispatchController struct{ Svc *services.DispatchService }

func NewDispatchController(svc *services.DispatchService) *DispatchController {
	return &DispatchController{Svc: svc}
}

// GET /dispatch/snapshot (admin/agent)
func (h *DispatchController) Snapshot(c *gin.Context) {
	entries, err := h.Svc.Snapshot(currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, entries)
}

// POST /dispatch/resync — reload roster + latest positions, e.g. after the
// client noticed a websocket reconnect.
func (h *DispatchController) Resync(c *gin.Context) {
	if err := h.Svc.Resync(); err != nil {
		resp.ServerError(c, err)
		return
	}
	entries, err := h.Svc.Snapshot(currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, entries)
}
