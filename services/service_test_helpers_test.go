package services

import (
	"context"
	"testing"
	"time"

	"anket.link/configs/configsdatabase"
	"anket.link/database"
	"anket.link/models"
	"anket.link/pkg/queryparams"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestDB in-memory SQLite açar, şemayı kurar ve global bağlantıyı
// değiştirir. Her test kendi veritabanını alır.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("test havuzu alınamadı: %v", err)
	}
	// :memory: bağlantı başına ayrı veritabanıdır; havuz teke indirilir.
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrationsInOrder(conn); err != nil {
		t.Fatalf("test şeması kurulamadı: %v", err)
	}

	configsdatabase.SetDB(conn)
	t.Cleanup(func() {
		configsdatabase.SetDB(nil)
		_ = sqlDB.Close()
	})
	return conn
}

// seedSurvey testlerde kullanılan anketi sorularıyla oluşturur.
func seedSurvey(t *testing.T, db *gorm.DB) *models.Survey {
	t.Helper()

	survey := &models.Survey{
		Name: "Test Anketi",
		Slug: "test-survey",
		Questions: []models.Question{
			{
				Title: "Adınız nedir?",
				Label: "Adınız",
				Slug:  "name",
				Type:  models.QuestionTypeText,
				Order: 1,
			},
			{
				Title:    "Kaç yaşındasınız?",
				Label:    "Yaşınız",
				Slug:     "age",
				Type:     models.QuestionTypeInteger,
				Order:    2,
				FilterBy: true,
			},
			{
				Title: "Bugün hangi aktiviteleri yaptınız?",
				Label: "Aktiviteler",
				Slug:  "activities",
				Type:  models.QuestionTypeMultiSelect,
				Order: 3,
			},
			{
				Title: "Alanları puanlayın.",
				Label: "Alan puanları",
				Slug:  "ratings",
				Type:  models.QuestionTypeGrid,
				Rows:  "Plaj\nPark",
				Order: 4,
				GridCols: []models.QuestionOption{
					{Text: "Puan", Label: "rating", Type: models.QuestionTypeInteger},
				},
			},
			{
				Title: "Gördüğünüz sorunları işaretleyin.",
				Label: "Sorun noktaları",
				Slug:  "spots",
				Type:  models.QuestionTypeMapMultipoint,
				Order: 5,
			},
		},
	}
	if err := db.Create(survey).Error; err != nil {
		t.Fatalf("test anketi oluşturulamadı: %v", err)
	}
	return survey
}

func questionBySlug(t *testing.T, survey *models.Survey, slug string) *models.Question {
	t.Helper()
	for i := range survey.Questions {
		if survey.Questions[i].Slug == slug {
			return &survey.Questions[i]
		}
	}
	t.Fatalf("test anketinde soru yok: %s", slug)
	return nil
}

func queryParamsForPage(page, perPage int) queryparams.ListParams {
	return queryparams.ListParams{Page: page, PerPage: perPage, SortBy: "ts", OrderBy: "asc"}
}

// seedRespondant servis üzerinden yeni bir oturum açar.
func seedRespondant(t *testing.T, surveyID uint) *models.Respondant {
	t.Helper()
	respondant, err := NewRespondantService().CreateRespondant(context.Background(), CreateRespondantInput{
		SurveyID:     surveyID,
		SurveyorName: "Ayşe",
		Ts:           time.Date(2014, 6, 5, 14, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("test respondant oluşturulamadı: %v", err)
	}
	return respondant
}
