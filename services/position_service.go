package services

import (
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"
)

// PositionService is the rider GPS feed: append-only samples plus a live
// in-process insert feed for dispatch viewers.
type PositionService struct {
	Repo *repository.PositionRepository
	Feed *PositionFeed
}

func NewPositionService(repo *repository.PositionRepository, feed *PositionFeed) *PositionService {
	return &PositionService{Repo: repo, Feed: feed}
}

// Lat and Lng are pointers so a zero coordinate (equator, prime meridian)
// still passes the required check; only an absent field is rejected.
type PositionSample struct {
	Lat        *float64 `json:"lat" binding:"required,gte=-90,lte=90"`
	Lng        *float64 `json:"lng" binding:"required,gte=-180,lte=180"`
	AccuracyM  *float64 `json:"accuracyM"`
	SpeedMps   *float64 `json:"speedMps"`
	HeadingDeg *float64 `json:"headingDeg"`
}

// Record inserts one sample for the rider themself and publishes it to the
// live feed after the insert commits. No throttling here; clients are
// expected to rate-limit (the reference UI sends at most every few seconds).
func (s *PositionService) Record(actor Actor, riderID uint, sample PositionSample) (*entity.RiderPosition, error) {
	if !CanRecordPosition(actor, riderID) {
		return nil, apperr.Forbidden("forbidden")
	}
	if sample.Lat == nil || sample.Lng == nil {
		return nil, apperr.Validation("lat and lng are required")
	}
	if *sample.Lat < -90 || *sample.Lat > 90 {
		return nil, apperr.Validation("lat out of range: %v", *sample.Lat)
	}
	if *sample.Lng < -180 || *sample.Lng > 180 {
		return nil, apperr.Validation("lng out of range: %v", *sample.Lng)
	}

	p := entity.RiderPosition{
		RiderID:    riderID,
		Lat:        *sample.Lat,
		Lng:        *sample.Lng,
		AccuracyM:  sample.AccuracyM,
		SpeedMps:   sample.SpeedMps,
		HeadingDeg: sample.HeadingDeg,
		RecordedAt: time.Now(),
	}
	if err := s.Repo.Create(&p); err != nil {
		return nil, err
	}

	s.Feed.Publish(p)
	return &p, nil
}

// LatestFor returns the newest sample per rider id; riders that never
// reported are simply absent from the result.
func (s *PositionService) LatestFor(riderIDs []uint) (map[uint]entity.RiderPosition, error) {
	return s.Repo.LatestFor(riderIDs)
}
