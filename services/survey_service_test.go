package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"anket.link/models"
)

func TestGetSurveyBySlugOrdersQuestions(t *testing.T) {
	db := setupTestDB(t)
	seedSurvey(t, db)

	svc := NewSurveyService()
	survey, err := svc.GetSurveyBySlug(context.Background(), "test-survey")
	if err != nil {
		t.Fatalf("GetSurveyBySlug: %v", err)
	}
	if len(survey.Questions) != 5 {
		t.Fatalf("soru sayısı: %d", len(survey.Questions))
	}
	for i := 1; i < len(survey.Questions); i++ {
		if survey.Questions[i-1].Order > survey.Questions[i].Order {
			t.Fatalf("sorular sıralı gelmeli: %+v", survey.Questions)
		}
	}
	ratings := questionBySlug(t, survey, "ratings")
	if len(ratings.GridCols) != 1 || ratings.GridCols[0].Label != "rating" {
		t.Fatalf("grid sütunları yüklenmeli: %+v", ratings.GridCols)
	}
}

func TestGetSurveyBySlugNotFound(t *testing.T) {
	setupTestDB(t)

	_, err := NewSurveyService().GetSurveyBySlug(context.Background(), "yok")
	if !errors.Is(err, ErrSurveyNotFound) {
		t.Fatalf("ErrSurveyNotFound bekleniyordu, geldi: %v", err)
	}
}

func TestGetStats(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)

	svc := NewRespondantService()
	first := seedRespondant(t, survey.ID)
	seedRespondant(t, survey.ID)

	complete := models.RespondantStatusComplete
	completeFlag := true
	if _, err := svc.UpdateRespondant(context.Background(), first.UUID, UpdateRespondantInput{
		Status:   &complete,
		Complete: &completeFlag,
	}); err != nil {
		t.Fatalf("UpdateRespondant: %v", err)
	}
	if err := svc.SetReviewStatus(context.Background(), first.UUID, models.ReviewStatusFlagged, ""); err != nil {
		t.Fatalf("SetReviewStatus: %v", err)
	}

	stats, err := NewSurveyService().GetStats(context.Background(), "test-survey")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Responses != 2 {
		t.Fatalf("responses: %d", stats.Responses)
	}
	if stats.Completes != 1 {
		t.Fatalf("completes: %d", stats.Completes)
	}
	if stats.Flagged != 1 {
		t.Fatalf("flagged: %d", stats.Flagged)
	}
	if stats.ReviewsNeeded != 1 {
		t.Fatalf("reviews needed: %d", stats.ReviewsNeeded)
	}
	if stats.DateStart == nil || stats.DateEnd == nil {
		t.Fatal("tarih aralığı dolmalı")
	}
	seeded := time.Date(2014, 6, 5, 14, 30, 0, 0, time.UTC)
	if !stats.DateStart.Equal(seeded) || !stats.DateEnd.Equal(seeded) {
		t.Fatalf("tarih sınırları: %v - %v", stats.DateStart, stats.DateEnd)
	}
}

func TestGetStatsEmptySurvey(t *testing.T) {
	db := setupTestDB(t)
	seedSurvey(t, db)

	stats, err := NewSurveyService().GetStats(context.Background(), "test-survey")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Responses != 0 {
		t.Fatalf("responses: %d", stats.Responses)
	}
	if stats.DateStart != nil || stats.DateEnd != nil {
		t.Fatal("boş ankette tarih aralığı boş kalmalı")
	}
}

func TestGetFieldNamesStaticRows(t *testing.T) {
	db := setupTestDB(t)
	seedSurvey(t, db)

	fields, err := NewSurveyService().GetFieldNames(context.Background(), "test-survey")
	if err != nil {
		t.Fatalf("GetFieldNames: %v", err)
	}

	// 5 meta + name, age, activities + 2 grid satırı + spots.
	if len(fields) != 5+3+2+1 {
		t.Fatalf("alan sayısı: %d (%v)", len(fields), fields)
	}
	slugs := make(map[string]bool, len(fields))
	for _, f := range fields {
		slugs[f.Slug] = true
	}
	for _, want := range []string{"model-surveyor", "name", "ratings-plaj", "ratings-park", "spots"} {
		if !slugs[want] {
			t.Fatalf("alan eksik: %s (%v)", want, fields)
		}
	}
}

// Satır tanımı olmayan grid'in alanları cevaplarda gözlemlenen satırlardan
// türetilir.
func TestGetFieldNamesDynamicGridRows(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)

	rowless := models.Question{
		SurveyID: survey.ID,
		Title:    "Serbest satırlar",
		Label:    "Serbest",
		Slug:     "free-grid",
		Type:     models.QuestionTypeGrid,
		Order:    8,
		GridCols: []models.QuestionOption{
			{Text: "Puan", Label: "rating", Type: models.QuestionTypeInteger},
		},
	}
	if err := db.Create(&rowless).Error; err != nil {
		t.Fatalf("soru oluşturulamadı: %v", err)
	}

	respondant := seedRespondant(t, survey.ID)
	if _, err := NewResponseService().CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     rowless.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      `[{"label":"iskele","text":"İskele","rating":3}]`,
		Ts:             time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	fields, err := NewSurveyService().GetFieldNames(context.Background(), "test-survey")
	if err != nil {
		t.Fatalf("GetFieldNames: %v", err)
	}
	found := false
	for _, f := range fields {
		if f.Slug == "free-grid-iskele" {
			found = true
			if f.Label != "Serbest - İskele" {
				t.Fatalf("dinamik satır etiketi: %+v", f)
			}
		}
	}
	if !found {
		t.Fatalf("gözlemlenen satır alanlara eklenmeli: %v", fields)
	}
}

func TestCreateSurveyValidation(t *testing.T) {
	setupTestDB(t)

	err := NewSurveyService().CreateSurvey(context.Background(), &models.Survey{Name: "adsız"})
	if !errors.Is(err, ErrSrvInvalidInput) {
		t.Fatalf("ErrSrvInvalidInput bekleniyordu, geldi: %v", err)
	}
}

func TestCountSurveys(t *testing.T) {
	db := setupTestDB(t)
	seedSurvey(t, db)

	svc := NewSurveyService()
	count, err := svc.CountSurveys(context.Background())
	if err != nil {
		t.Fatalf("CountSurveys: %v", err)
	}
	if count != 1 {
		t.Fatalf("anket sayısı: %d", count)
	}

	if err := svc.CreateSurvey(context.Background(), &models.Survey{Name: "İkinci", Slug: "ikinci"}); err != nil {
		t.Fatalf("CreateSurvey: %v", err)
	}
	count, err = svc.CountSurveys(context.Background())
	if err != nil {
		t.Fatalf("CountSurveys: %v", err)
	}
	if count != 2 {
		t.Fatalf("anket sayısı: %d", count)
	}
}
