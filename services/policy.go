package services

import (
	"strings"

	"backend/entity"
)

// Actor is the resolved principal threaded into every service call. The
// zero value is an unauthenticated actor and is denied everywhere.
type Actor struct {
	ID    uint
	Email string
	Role  string
}

func (a Actor) IsStaff() bool {
	return a.Role == entity.RoleAdmin || a.Role == entity.RoleAgent
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CanReadShipment: staff read everything; a customer reads only rows whose
// linked customer email equals their own. customerEmail is empty when the
// shipment has no linked customer.
func CanReadShipment(a Actor, customerEmail string) bool {
	if a.IsStaff() {
		return true
	}
	if a.Role == entity.RoleCustomer && a.Email != "" && customerEmail != "" {
		return strings.EqualFold(a.Email, customerEmail)
	}
	return false
}

func CanWriteShipment(a Actor) bool {
	return a.IsStaff()
}

func CanDeleteShipment(a Actor) bool {
	return a.IsAdmin()
}

func CanAppendEvent(a Actor) bool {
	return a.IsStaff()
}

// CanRecordPosition: only the rider themself, for their own id.
func CanRecordPosition(a Actor, riderID uint) bool {
	return a.Role == entity.RoleRider && a.ID != 0 && a.ID == riderID
}

func CanViewDispatch(a Actor) bool {
	return a.IsStaff()
}

func CanManageUsers(a Actor) bool {
	return a.IsAdmin()
}
