package db

import (
	"github.com/coupleswish/wishes-backend/internal/app/model"
	"github.com/coupleswish/wishes-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Couple{},
		&model.User{},
		&model.Wish{},
	}
}

// Migrate creates missing tables, columns and constraints.
func Migrate(gormDB *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := gormDB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}
