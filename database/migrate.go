package database

import (
	"tranzit_backend/internal/logger"
	"tranzit_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Driver{},
		&models.Offer{},
		&models.RefreshToken{},
	)
	if err != nil {
		return err
	}

	logger.Info("AutoMigrate завершен")
	return nil
}
