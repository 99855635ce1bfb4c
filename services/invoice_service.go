package services

import (
	"errors"
	"fmt"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"gorm.io/gorm"
)

// InvoiceService backs the document generator: a read-only shipment snapshot
// and an idempotent invoice number per shipment.
type InvoiceService struct {
	Shipments *repository.ShipmentRepository
	Invoices  *repository.InvoiceRepository
}

func NewInvoiceService(shipments *repository.ShipmentRepository, invoices *repository.InvoiceRepository) *InvoiceService {
	return &InvoiceService{Shipments: shipments, Invoices: invoices}
}

// DocumentSnapshot is what label/invoice rendering gets to see.
type DocumentSnapshot struct {
	TrackingCode   string    `json:"trackingCode"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	WeightKg       *float64  `json:"weightKg,omitempty"`
	PriceAmount    *float64  `json:"priceAmount,omitempty"`
	Currency       string    `json:"currency"`
	SenderFullName string    `json:"senderFullName"`
	SenderIDNumber string    `json:"senderIdNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (s *InvoiceService) loadVisible(shipmentID uint, actor Actor) (*entity.Shipment, error) {
	shipment, err := s.Shipments.GetWithCustomer(shipmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("shipment not found")
		}
		return nil, err
	}
	customerEmail := ""
	if shipment.Customer != nil {
		customerEmail = shipment.Customer.Email
	}
	if !CanReadShipment(actor, customerEmail) {
		return nil, apperr.Forbidden("forbidden")
	}
	return shipment, nil
}

func (s *InvoiceService) Snapshot(shipmentID uint, actor Actor) (*DocumentSnapshot, error) {
	shipment, err := s.loadVisible(shipmentID, actor)
	if err != nil {
		return nil, err
	}
	return &DocumentSnapshot{
		TrackingCode:   shipment.TrackingCode,
		Origin:         shipment.Origin,
		Destination:    shipment.Destination,
		WeightKg:       shipment.WeightKg,
		PriceAmount:    shipment.PriceAmount,
		Currency:       shipment.Currency,
		SenderFullName: shipment.SenderFullName,
		SenderIDNumber: shipment.SenderIDNumber,
		CreatedAt:      shipment.CreatedAt,
	}, nil
}

// IssueNumber returns the shipment's invoice number, minting it on first
// call. Repeated calls for the same shipment always return the same number.
func (s *InvoiceService) IssueNumber(shipmentID uint, actor Actor) (string, error) {
	shipment, err := s.loadVisible(shipmentID, actor)
	if err != nil {
		return "", err
	}

	number := fmt.Sprintf("INV-%d-%06d", shipment.CreatedAt.Year(), shipment.ID)
	inv, err := s.Invoices.GetOrCreate(shipment.ID, number)
	if err != nil {
		return "", err
	}
	return inv.Number, nil
}
