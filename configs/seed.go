package configs

import (
	"log"

	"backend/entity"

	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the first admin from ADMIN_EMAIL/ADMIN_PASSWORD.
func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:    email,
		Password: string(hash),
		FullName: "Admin",
		Role:     entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

// SeedDemo inserts a demo agent/customer/rider and one shipment with a short
// history, for local development only (SEED_DEMO=1).
func SeedDemo() error {
	db := DB()

	var count int64
	db.Model(&entity.Shipment{}).Count(&count)
	if count > 0 {
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	users := []entity.User{
		{Email: "agent@atlas.local", Password: string(hash), FullName: "Operations Agent", Role: entity.RoleAgent},
		{Email: "customer@atlas.local", Password: string(hash), FullName: "Demo Customer", Role: entity.RoleCustomer},
		{Email: "rider@atlas.local", Password: string(hash), FullName: "Demo Rider", Role: entity.RoleRider},
	}
	for i := range users {
		if err := db.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			return err
		}
	}

	weight := 2.4
	price := 180.0
	shipment := entity.Shipment{
		TrackingCode: "APE-DEMO000001",
		CustomerID:   &users[1].ID,
		Origin:       "Spain (Madrid)",
		Destination:  "Morocco (Tangier)",
		Status:       entity.StatusInTransit,
		WeightKg:     &weight,
		PriceAmount:  &price,
		Currency:     "MAD",
	}
	if err := db.Create(&shipment).Error; err != nil {
		return err
	}

	history := []struct {
		status string
		note   string
	}{
		{entity.StatusCreated, "Shipment created"},
		{entity.StatusPickedUp, "Received at origin hub"},
		{entity.StatusInTransit, "Departed origin hub"},
	}
	for _, h := range history {
		note := h.note
		ev := entity.ShipmentEvent{ShipmentID: shipment.ID, Status: h.status, Note: &note}
		if err := db.Create(&ev).Error; err != nil {
			return err
		}
	}
	return nil
}
