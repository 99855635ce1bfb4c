package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type PositionRepository struct {
	DB *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{DB: db}
}

func (r *PositionRepository) Create(p *entity.RiderPosition) error {
	return r.DB.Create(p).Error
}

// LatestFor returns the newest sample per requested rider, keyed by rider id.
// Riders with no samples are absent from the map. Ties on recorded_at go to
// the highest id.
func (r *PositionRepository) LatestFor(riderIDs []uint) (map[uint]entity.RiderPosition, error) {
	out := make(map[uint]entity.RiderPosition, len(riderIDs))
	if len(riderIDs) == 0 {
		return out, nil
	}

	var rows []entity.RiderPosition
	err := r.DB.
		Joins("JOIN (SELECT rider_id, MAX(recorded_at) AS rec FROM rider_positions WHERE rider_id IN ? GROUP BY rider_id) m ON m.rider_id = rider_positions.rider_id AND m.rec = rider_positions.recorded_at", riderIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		cur, ok := out[row.RiderID]
		if !ok || row.ID > cur.ID {
			out[row.RiderID] = row
		}
	}
	return out, nil
}
