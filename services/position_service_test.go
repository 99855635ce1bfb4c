package services

import (
	"testing"
	"time"

	"backend/entity"
	"backend/pkg/apperr"
	"backend/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPositionService(db *gorm.DB) *PositionService {
	return NewPositionService(repository.NewPositionRepository(db), NewPositionFeed())
}

func insertPosition(t *testing.T, db *gorm.DB, riderID uint, lat, lng float64, at time.Time) entity.RiderPosition {
	t.Helper()
	p := entity.RiderPosition{RiderID: riderID, Lat: lat, Lng: lng, RecordedAt: at}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestRecordPolicy(t *testing.T) {
	db := newTestDB(t)
	svc := newPositionService(db)
	rider := createUser(t, db, "r1@x.com", entity.RoleRider)
	agent := createUser(t, db, "agent@x.com", entity.RoleAgent)

	sample := sampleAt(35.0, -5.8)

	p, err := svc.Record(actorFor(rider), rider.ID, sample)
	require.NoError(t, err)
	assert.Equal(t, rider.ID, p.RiderID)
	assert.False(t, p.RecordedAt.IsZero())

	_, err = svc.Record(actorFor(agent), agent.ID, sample)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden), "only riders record")

	_, err = svc.Record(actorFor(rider), rider.ID+1, sample)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden), "only for their own id")
}

func TestRecordZeroCoordinates(t *testing.T) {
	db := newTestDB(t)
	svc := newPositionService(db)
	rider := createUser(t, db, "r1@x.com", entity.RoleRider)

	// equator and prime meridian are legitimate positions
	p, err := svc.Record(actorFor(rider), rider.ID, sampleAt(0, 10.5))
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Lat)

	p, err = svc.Record(actorFor(rider), rider.ID, sampleAt(51.4779, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Lng)
}

func TestRecordRejectsBadCoordinates(t *testing.T) {
	db := newTestDB(t)
	svc := newPositionService(db)
	rider := createUser(t, db, "r1@x.com", entity.RoleRider)

	_, err := svc.Record(actorFor(rider), rider.ID, PositionSample{Lng: fptr(10.5)})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing lat")

	_, err = svc.Record(actorFor(rider), rider.ID, PositionSample{Lat: fptr(35.0)})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "missing lng")

	_, err = svc.Record(actorFor(rider), rider.ID, sampleAt(95.0, 0))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "lat out of range")

	_, err = svc.Record(actorFor(rider), rider.ID, sampleAt(0, -181.0))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "lng out of range")
}

func TestRecordPublishesToFeed(t *testing.T) {
	db := newTestDB(t)
	svc := newPositionService(db)
	rider := createUser(t, db, "r1@x.com", entity.RoleRider)

	ch, cancel := svc.Feed.Subscribe(4)
	defer cancel()

	_, err := svc.Record(actorFor(rider), rider.ID, sampleAt(35.0, -5.8))
	require.NoError(t, err)

	select {
	case got := <-ch:
		assert.Equal(t, rider.ID, got.RiderID)
		assert.Equal(t, 35.0, got.Lat)
	case <-time.After(time.Second):
		t.Fatal("no feed push")
	}
}

func TestLatestFor(t *testing.T) {
	db := newTestDB(t)
	svc := newPositionService(db)
	riderA := createUser(t, db, "ra@x.com", entity.RoleRider)
	riderB := createUser(t, db, "rb@x.com", entity.RoleRider)
	riderC := createUser(t, db, "rc@x.com", entity.RoleRider)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	insertPosition(t, db, riderA.ID, 35.0, -5.8, base)
	insertPosition(t, db, riderA.ID, 35.1, -5.9, base.Add(time.Minute))
	wantA := insertPosition(t, db, riderA.ID, 35.2, -6.0, base.Add(2*time.Minute))
	wantB := insertPosition(t, db, riderB.ID, 34.0, -4.0, base)

	latest, err := svc.LatestFor([]uint{riderA.ID, riderB.ID, riderC.ID})
	require.NoError(t, err)

	require.Contains(t, latest, riderA.ID)
	assert.Equal(t, wantA.ID, latest[riderA.ID].ID)
	assert.Equal(t, 35.2, latest[riderA.ID].Lat)

	require.Contains(t, latest, riderB.ID)
	assert.Equal(t, wantB.ID, latest[riderB.ID].ID)

	assert.NotContains(t, latest, riderC.ID, "never-reported rider omitted")
}

func TestLatestForTieBreakHighestID(t *testing.T) {
	db := newTestDB(t)
	svc := newPositionService(db)
	rider := createUser(t, db, "r1@x.com", entity.RoleRider)

	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	insertPosition(t, db, rider.ID, 1.0, 1.0, at)
	second := insertPosition(t, db, rider.ID, 2.0, 2.0, at)

	latest, err := svc.LatestFor([]uint{rider.ID})
	require.NoError(t, err)
	require.Contains(t, latest, rider.ID)
	assert.Equal(t, second.ID, latest[rider.ID].ID)
}

func TestLatestForEmptyInput(t *testing.T) {
	db := newTestDB(t)
	svc := newPositionService(db)

	latest, err := svc.LatestFor(nil)
	require.NoError(t, err)
	assert.Empty(t, latest)
}
