package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Permission{},
		&model.Role{},
		&model.RoleRank{},
		&model.User{},
		&model.RefreshToken{},
		&model.Area{},
		&model.District{},
		&model.Branch{},
		&model.CustomType{},
		&model.Member{},
		&model.Event{},
		&model.EventAmount{},
		&model.EventRegistration{},
		&model.Donation{},
		&model.Pledge{},
		&model.PaymentTransaction{},
		&model.DonationPayment{},
		&model.Post{},
		&model.Comment{},
		&model.UserInteraction{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
