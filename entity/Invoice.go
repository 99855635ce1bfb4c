package entity

import (
	"gorm.io/gorm"
)

// Invoice pins one invoice number per shipment so repeated document
// generation for the same shipment always reuses the same number.
type Invoice struct {
	gorm.Model
	ShipmentID uint     `gorm:"uniqueIndex;not null" json:"shipmentId"`
	Shipment   Shipment `json:"-"`

	Number string `gorm:"uniqueIndex;not null" json:"number"`
}
