package repository

import (
	"strings"
	"time"

	"backend/entity"

	"gorm.io/gorm"
)

type ShipmentRepository struct {
	DB *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{DB: db}
}

func (r *ShipmentRepository) Create(tx *gorm.DB, s *entity.Shipment) error {
	return tx.Create(s).Error
}

func (r *ShipmentRepository) Get(id uint) (*entity.Shipment, error) {
	var s entity.Shipment
	if err := r.DB.First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetWithCustomer preloads the linked customer for policy email checks.
func (r *ShipmentRepository) GetWithCustomer(id uint) (*entity.Shipment, error) {
	var s entity.Shipment
	if err := r.DB.Preload("Customer").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepository) FindByTrackingCode(code string) (*entity.Shipment, error) {
	var s entity.Shipment
	err := r.DB.Where("LOWER(tracking_code) = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepository) CountByTrackingCode(code string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Shipment{}).
		Where("LOWER(tracking_code) = ?", strings.ToLower(strings.TrimSpace(code))).
		Count(&count).Error
	return count, err
}

func (r *ShipmentRepository) UpdateStatus(tx *gorm.DB, id uint, status string) error {
	return tx.Model(&entity.Shipment{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (r *ShipmentRepository) PatchFields(tx *gorm.DB, id uint, updates map[string]any) error {
	return tx.Model(&entity.Shipment{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes the shipment and its ledger rows. Callers wrap it in a
// transaction so neither survives alone.
func (r *ShipmentRepository) Delete(tx *gorm.DB, id uint) error {
	if err := tx.Unscoped().Where("shipment_id = ?", id).Delete(&entity.ShipmentEvent{}).Error; err != nil {
		return err
	}
	return tx.Unscoped().Delete(&entity.Shipment{}, id).Error
}

// ListAll returns staff-visible shipments, newest-first, optionally filtered
// by a case-insensitive substring of the tracking code.
func (r *ShipmentRepository) ListAll(query string, limit int) ([]entity.Shipment, error) {
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}
	db := r.DB.Order("id DESC").Limit(limit)
	if q := strings.TrimSpace(query); q != "" {
		db = db.Where("LOWER(tracking_code) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	var out []entity.Shipment
	err := db.Find(&out).Error
	return out, err
}

// ListForCustomerEmail returns only shipments whose linked customer's email
// matches; a customer must never see anyone else's rows.
func (r *ShipmentRepository) ListForCustomerEmail(email, query string, limit int) ([]entity.Shipment, error) {
	if limit <= 0 || limit > 5000 {
		limit = 1000
	}
	db := r.DB.
		Joins("JOIN users u ON u.id = shipments.customer_id").
		Where("LOWER(u.email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("shipments.id DESC").Limit(limit)
	if q := strings.TrimSpace(query); q != "" {
		db = db.Where("LOWER(shipments.tracking_code) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	var out []entity.Shipment
	err := db.Find(&out).Error
	return out, err
}

func (r *ShipmentRepository) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		N      int64
	}
	err := r.DB.Model(&entity.Shipment{}).
		Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *ShipmentRepository) CountCreatedSince(t time.Time) (int64, error) {
	var n int64
	err := r.DB.Model(&entity.Shipment{}).Where("created_at >= ?", t).Count(&n).Error
	return n, err
}

func (r *ShipmentRepository) RecentlyUpdated(limit int) ([]entity.Shipment, error) {
	if limit <= 0 {
		limit = 8
	}
	var out []entity.Shipment
	err := r.DB.Order("updated_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *ShipmentRepository) Count() (int64, error) {
	var n int64
	err := r.DB.Model(&entity.Shipment{}).Count(&n).Error
	return n, err
}
