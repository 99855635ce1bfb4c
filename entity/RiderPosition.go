package entity

import (
	"time"

	"gorm.io/gorm"
)

// RiderPosition is an append-only GPS sample. The current position of a
// rider is the sample with the latest RecordedAt (highest id on a tie).
type RiderPosition struct {
	gorm.Model
	RiderID uint `gorm:"index;not null" json:"riderId"`
	Rider   User `json:"-"`

	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`

	AccuracyM  *float64 `json:"accuracyM,omitempty"`
	SpeedMps   *float64 `json:"speedMps,omitempty"`
	HeadingDeg *float64 `json:"headingDeg,omitempty"`

	RecordedAt time.Time `gorm:"index;not null" json:"recordedAt"`
}
