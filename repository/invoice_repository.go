package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type InvoiceRepository struct {
	DB *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// GetOrCreate returns the invoice for a shipment, creating it with the given
// number on first call. The unique index on shipment_id keeps concurrent
// callers from minting two numbers for one shipment.
func (r *InvoiceRepository) GetOrCreate(shipmentID uint, number string) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Where(entity.Invoice{ShipmentID: shipmentID}).
			Attrs(entity.Invoice{Number: number}).
			FirstOrCreate(&inv).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
