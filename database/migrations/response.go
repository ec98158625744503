package migrations

import (
	"anket.link/configs/configslog"
	"anket.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateResponsesTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating responses & answer tables...")
	err := db.AutoMigrate(
		&models.Response{},
		&models.MultiAnswer{},
		&models.GridAnswer{},
		&models.Location{},
		&models.LocationAnswer{},
	)
	if err != nil {
		configslog.Log.Error("Failed to migrate responses & answer tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Responses & answer tables migrated successfully")
	return nil
}
