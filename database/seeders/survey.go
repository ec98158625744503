package seeders

import (
	"context"
	"errors"

	"anket.link/configs/configslog"
	"anket.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const demoSurveySlug = "demo-survey"

func intPtr(v int) *int { return &v }

// SeedDemoSurvey örnek bir anketi, zaten yoksa, sorularıyla birlikte oluşturur.
// Yeni kurulumlarda uçları elle denemek için kullanılır.
func SeedDemoSurvey(db *gorm.DB) error {
	systemUserID := uint(1)
	ctx := models.ContextWithUserID(context.Background(), systemUserID)

	var existing models.Survey
	result := db.Where("slug = ?", demoSurveySlug).First(&existing)
	if result.Error == nil {
		configslog.SLog.Debugf("Anket '%s' zaten mevcut, seed atlanıyor.", demoSurveySlug)
		return nil
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Anket kontrol edilirken veritabanı hatası",
			zap.String("slug", demoSurveySlug), zap.Error(result.Error))
		return result.Error
	}

	configslog.SLog.Infof("Anket '%s' oluşturuluyor...", demoSurveySlug)

	survey := models.Survey{
		Name:   "Demo Anketi",
		Slug:   demoSurveySlug,
		States: "active",
		Questions: []models.Question{
			{
				Title: "Adınız nedir?",
				Label: "Adınız",
				Slug:  "name",
				Type:  models.QuestionTypeText,
				Order: 1,
			},
			{
				Title: "Bizi hangi tarihte ziyaret ettiniz?",
				Label: "Ziyaret tarihi",
				Slug:  "visit-date",
				Type:  models.QuestionTypeDatePicker,
				Order: 2,
			},
			{
				Title:    "Kaç yaşındasınız?",
				Label:    "Yaşınız",
				Slug:     "age",
				Type:     models.QuestionTypeInteger,
				Order:    3,
				FilterBy: true,
			},
			{
				Title: "Bugün hangi aktiviteleri yaptınız?",
				Label: "Aktiviteler",
				Slug:  "activities",
				Type:  models.QuestionTypeMultiSelect,
				Order: 4,
			},
			{
				Title: "Aşağıdaki alanları puanlayın.",
				Label: "Alan puanları",
				Slug:  "ratings",
				Type:  models.QuestionTypeGrid,
				Rows:  "Plaj\nPark\nİskele",
				Order: 5,
				GridCols: []models.QuestionOption{
					{Text: "Puan", Label: "rating", Type: models.QuestionTypeInteger, Min: intPtr(1), Max: intPtr(5)},
				},
			},
		},
	}

	if err := db.WithContext(ctx).Create(&survey).Error; err != nil {
		configslog.Log.Error("Anket oluşturulamadı",
			zap.String("slug", demoSurveySlug), zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Anket '%s' başarıyla oluşturuldu (ID: %d).", demoSurveySlug, survey.ID)
	return nil
}
