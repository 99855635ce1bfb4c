package entity

import (
	"gorm.io/gorm"
)

const (
	StatusRequested      = "requested"
	StatusCreated        = "created"
	StatusPickedUp       = "picked_up"
	StatusInTransit      = "in_transit"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// ValidStatus reports whether s is one of the shipment status values.
// There is no transition graph: any writable role may set any status.
func ValidStatus(s string) bool {
	switch s {
	case StatusRequested, StatusCreated, StatusPickedUp, StatusInTransit,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Shipment struct {
	gorm.Model
	TrackingCode string `gorm:"uniqueIndex;not null" json:"trackingCode"`

	CustomerID *uint `json:"customerId,omitempty"`
	Customer   *User `json:"-"` // preload only when the customer email is needed

	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Status      string `gorm:"not null;default:created" json:"status"`

	WeightKg    *float64 `json:"weightKg,omitempty"`
	PriceAmount *float64 `json:"priceAmount,omitempty"`
	Currency    string   `gorm:"default:MAD" json:"currency"`

	SenderFullName string `json:"senderFullName"`
	SenderIDNumber string `json:"senderIdNumber"`
	Notes          string `json:"notes"`

	Events []ShipmentEvent `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
