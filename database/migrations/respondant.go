package migrations

import (
	"anket.link/configs/configslog"
	"anket.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateRespondantsTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating respondants & respondant_fields tables...")
	err := db.AutoMigrate(&models.Respondant{}, &models.RespondantField{})
	if err != nil {
		configslog.Log.Error("Failed to migrate respondants & respondant_fields tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Respondants & respondant_fields tables migrated successfully")
	return nil
}

func MigrateExportRowsTable(db *gorm.DB) error {
	configslog.SLog.Info("Migrating export_rows table...")
	err := db.AutoMigrate(&models.ExportRow{})
	if err != nil {
		configslog.Log.Error("Failed to migrate export_rows table", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Export_rows table migrated successfully")
	return nil
}
