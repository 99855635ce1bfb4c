package entity

import (
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "admin"
	RoleAgent    = "agent"
	RoleCustomer = "customer"
	RoleRider    = "rider"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `json:"-"`
	FullName string `json:"fullName"`
	Role     string `gorm:"not null;default:customer" json:"role"`
	Disabled bool   `gorm:"not null;default:false" json:"disabled"`

	// Relations — preload only when needed
	Shipments []Shipment      `gorm:"foreignKey:CustomerID" json:"-"`
	Positions []RiderPosition `gorm:"foreignKey:RiderID" json:"-"`
}

func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer, RoleRider:
		return true
	}
	return false
}
