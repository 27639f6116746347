package database

import (
	"gorm.io/gorm"

	"suvix_backend/internal/models"
)

// Migrate applies the schema. The uuid-ossp extension backs the uuid
// primary key defaults.
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Gig{},
		&models.Order{},
		&models.Rating{},
		&models.PaymentIntent{},
		&models.Notification{},
		&models.KYCRecord{},
		&models.PortfolioItem{},
		&models.PortfolioLike{},
		&models.Message{},
	)
}
