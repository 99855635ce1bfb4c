package controllers

import (
	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

// DocsController feeds the document generator: shipment snapshots for label
// rendering and the idempotent invoice number.
type DocsController struct{ Svc *services.InvoiceService }

func NewDocsController(svc *services.InvoiceService) *DocsController {
	return &DocsController{Svc: svc}
}

// GET /docs/shipments/:id/snapshot
func (h *DocsController) Snapshot(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	snap, err := h.Svc.Snapshot(id, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, snap)
}

// POST /docs/shipments/:id/invoice-number
func (h *DocsController) InvoiceNumber(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	number, err := h.Svc.IssueNumber(id, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"invoiceNumber": number})
}
