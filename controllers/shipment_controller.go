package controllers

import (
	"encoding/csv"
	"log"
	"net/http"
	"strconv"

	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type ShipmentController struct{ Svc *services.ShipmentService }

func NewShipmentController(svc *services.ShipmentService) *ShipmentController {
	return &ShipmentController{Svc: svc}
}

func shipmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		resp.BadRequest(c, "invalid shipment id")
		return 0, false
	}
	return uint(id), true
}

// POST /shipments (admin/agent)
func (h *ShipmentController) Create(c *gin.Context) {
	var draft services.ShipmentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	shipment, err := h.Svc.Create(&draft, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, shipment)
}

// POST /shipments/request (customer pickup request)
func (h *ShipmentController) Request(c *gin.Context) {
	var draft services.ShipmentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	shipment, err := h.Svc.Request(&draft, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, shipment)
}

// GET /shipments?q=&limit=
func (h *ShipmentController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	shipments, err := h.Svc.List(currentActor(c), c.Query("q"), limit)
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, shipments)
}

// GET /shipments/:id
func (h *ShipmentController) Detail(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	shipment, events, err := h.Svc.Detail(id, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"shipment": shipment, "events": events})
}

type UpdateStatusRequest struct {
	Status   string  `json:"status" binding:"required"`
	Note     *string `json:"note"`
	Location *string `json:"location"`
}

// POST /shipments/:id/status (admin/agent)
func (h *ShipmentController) UpdateStatus(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	shipment, err := h.Svc.UpdateStatus(id, req.Status, req.Note, req.Location, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, shipment)
}

type AppendEventRequest struct {
	Note     *string `json:"note"`
	Location *string `json:"location"`
}

// POST /shipments/:id/events (admin/agent) — note/scan without status change
func (h *ShipmentController) AppendEvent(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	var req AppendEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	ev, err := h.Svc.AppendEvent(id, req.Note, req.Location, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.Created(c, ev)
}

// GET /shipments/:id/events?limit=
func (h *ShipmentController) Events(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.Svc.ListEvents(id, limit, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, events)
}

// PATCH /shipments/:id (admin/agent)
func (h *ShipmentController) Patch(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	var patch services.ShipmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	shipment, err := h.Svc.PatchFields(id, &patch, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, shipment)
}

// DELETE /shipments/:id (admin)
func (h *ShipmentController) Delete(c *gin.Context) {
	id, ok := shipmentID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(id, currentActor(c)); err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": id})
}

type BulkCreateRequest struct {
	Drafts []services.ShipmentDraft `json:"drafts" binding:"required"`
}

// POST /shipments/bulk (admin/agent) — per-row results, partial success
func (h *ShipmentController) BulkCreate(c *gin.Context) {
	var req BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	results, err := h.Svc.BulkCreate(req.Drafts, currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}
	resp.OK(c, results)
}

// GET /shipments/export (csv download of everything the actor can see)
func (h *ShipmentController) ExportCSV(c *gin.Context) {
	shipments, err := h.Svc.ExportAll(currentActor(c))
	if err != nil {
		resp.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="shipments_export.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"tracking_code", "origin", "destination", "status", "weight_kg", "price_amount", "currency", "notes", "created_at", "updated_at"})
	for _, s := range shipments {
		weight, price := "", ""
		if s.WeightKg != nil {
			weight = strconv.FormatFloat(*s.WeightKg, 'f', -1, 64)
		}
		if s.PriceAmount != nil {
			price = strconv.FormatFloat(*s.PriceAmount, 'f', -1, 64)
		}
		w.Write([]string{
			s.TrackingCode, s.Origin, s.Destination, s.Status,
			weight, price, s.Currency, s.Notes,
			s.CreatedAt.Format("2006-01-02 15:04:05"),
			s.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("csv flush error: %v", err)
	}
}
