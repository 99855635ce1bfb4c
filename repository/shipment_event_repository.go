package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

// ShipmentEventRepository is append-only: there is deliberately no update
// or single-row delete here.
type ShipmentEventRepository struct {
	DB *gorm.DB
}

func NewShipmentEventRepository(db *gorm.DB) *ShipmentEventRepository {
	return &ShipmentEventRepository{DB: db}
}

func (r *ShipmentEventRepository) Create(tx *gorm.DB, ev *entity.ShipmentEvent) error {
	return tx.Create(ev).Error
}

const maxEventPage = 50

// ListFor returns events newest-first, capped at 50 rows.
func (r *ShipmentEventRepository) ListFor(shipmentID uint, limit int) ([]entity.ShipmentEvent, error) {
	if limit <= 0 || limit > maxEventPage {
		limit = maxEventPage
	}
	var out []entity.ShipmentEvent
	err := r.DB.Where("shipment_id = ?", shipmentID).
		Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *ShipmentEventRepository) Latest(shipmentID uint) (*entity.ShipmentEvent, error) {
	var ev entity.ShipmentEvent
	if err := r.DB.Where("shipment_id = ?", shipmentID).
		Order("id DESC").First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}
