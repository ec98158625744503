package migrations

import (
	"anket.link/configs/configslog"
	"anket.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func MigrateSurveysTables(db *gorm.DB) error {
	configslog.SLog.Info("Migrating surveys & questions tables...")
	err := db.AutoMigrate(&models.Survey{}, &models.Question{}, &models.QuestionOption{})
	if err != nil {
		configslog.Log.Error("Failed to migrate surveys & questions tables", zap.Error(err))
		return err
	}
	configslog.SLog.Info("Surveys & questions tables migrated successfully")
	return nil
}
