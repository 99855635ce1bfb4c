package entity

import (
	"gorm.io/gorm"
)

// ShipmentEvent is an append-only ledger row. Rows are never updated or
// deleted; the owning shipment's status must equal the newest row's status.
type ShipmentEvent struct {
	gorm.Model
	ShipmentID uint     `gorm:"index;not null" json:"shipmentId"`
	Shipment   Shipment `json:"-"`

	Status   string  `gorm:"not null" json:"status"`
	Location *string `json:"location,omitempty"`
	Note     *string `json:"note,omitempty"`

	ActorID *uint `json:"actorId,omitempty"`
	Actor   *User `json:"-"`
}
