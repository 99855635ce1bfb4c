package services

import (
	"testing"

	"backend/entity"
	"backend/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Shipment{}, &entity.ShipmentEvent{},
		&entity.RiderPosition{},
		&entity.Invoice{},
	))
	return db
}

func newShipmentService(t *testing.T, db *gorm.DB) *ShipmentService {
	t.Helper()
	return NewShipmentService(
		db,
		repository.NewShipmentRepository(db),
		repository.NewShipmentEventRepository(db),
		repository.NewUserRepository(db),
		"APE",
	)
}

func createUser(t *testing.T, db *gorm.DB, email, role string) entity.User {
	t.Helper()
	u := entity.User{Email: email, Password: "x", FullName: email, Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func actorFor(u entity.User) Actor {
	return Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

func strptr(s string) *string { return &s }

func fptr(v float64) *float64 { return &v }

func sampleAt(lat, lng float64) PositionSample {
	return PositionSample{Lat: fptr(lat), Lng: fptr(lng)}
}
