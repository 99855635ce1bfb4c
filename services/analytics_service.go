package services

import (
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"gorm.io/gorm"
)

type AnalyticsService struct {
	DB        *gorm.DB
	Shipments *repository.ShipmentRepository
}

func NewAnalyticsService(db *gorm.DB, shipments *repository.ShipmentRepository) *AnalyticsService {
	return &AnalyticsService{DB: db, Shipments: shipments}
}

type RecentShipment struct {
	ID           uint      `json:"id"`
	TrackingCode string    `json:"trackingCode"`
	Destination  string    `json:"destination"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Overview struct {
	TotalShipments int64            `json:"totalShipments"`
	TotalUsers     int64            `json:"totalUsers"`
	ByStatus       map[string]int64 `json:"byStatus"`
	Last30DaysNew  int64            `json:"last30DaysNewShipments"`
	Recent         []RecentShipment `json:"recent"`
}

func (s *AnalyticsService) Overview(actor Actor) (*Overview, error) {
	if !actor.IsStaff() {
		return nil, apperr.Forbidden("forbidden")
	}

	totalShipments, err := s.Shipments.Count()
	if err != nil {
		return nil, err
	}
	var totalUsers int64
	if err := s.DB.Model(&entity.User{}).Count(&totalUsers).Error; err != nil {
		return nil, err
	}
	byStatus, err := s.Shipments.CountByStatus()
	if err != nil {
		return nil, err
	}
	last30, err := s.Shipments.CountCreatedSince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	recent, err := s.Shipments.RecentlyUpdated(8)
	if err != nil {
		return nil, err
	}

	out := &Overview{
		TotalShipments: totalShipments,
		TotalUsers:     totalUsers,
		ByStatus:       byStatus,
		Last30DaysNew:  last30,
		Recent:         make([]RecentShipment, 0, len(recent)),
	}
	for _, sh := range recent {
		out.Recent = append(out.Recent, RecentShipment{
			ID:           sh.ID,
			TrackingCode: sh.TrackingCode,
			Destination:  sh.Destination,
			Status:       sh.Status,
			UpdatedAt:    sh.UpdatedAt,
		})
	}
	return out, nil
}
