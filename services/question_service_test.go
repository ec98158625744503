package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"anket.link/repositories"
)

func answer(t *testing.T, questionID uint, respondantUUID, raw string) {
	t.Helper()
	if _, err := NewResponseService().CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     questionID,
		RespondantUUID: respondantUUID,
		AnswerRaw:      raw,
		Ts:             time.Now().UTC(),
	}); err != nil {
		t.Fatalf("cevap oluşturulamadı: %v", err)
	}
}

func TestGetAnswerDomainDefault(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	question := questionBySlug(t, survey, "name")

	first := seedRespondant(t, survey.ID)
	second := seedRespondant(t, survey.ID)
	third := seedRespondant(t, survey.ID)

	answer(t, question.ID, first.UUID, `"Mehmet"`)
	answer(t, question.ID, second.UUID, `"Mehmet"`)
	answer(t, question.ID, third.UUID, `"Ayşe"`)

	entries, err := NewQuestionService().GetAnswerDomain(context.Background(), question.ID, nil)
	if err != nil {
		t.Fatalf("GetAnswerDomain: %v", err)
	}
	counts := map[string]int64{}
	for _, e := range entries {
		counts[e.Answer] = e.Surveys
	}
	if counts["Mehmet"] != 2 || counts["Ayşe"] != 1 {
		t.Fatalf("dağılım: %v", counts)
	}
}

func TestGetAnswerDomainMultiSelect(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	question := questionBySlug(t, survey, "activities")

	first := seedRespondant(t, survey.ID)
	second := seedRespondant(t, survey.ID)

	answer(t, question.ID, first.UUID, `["Yüzme","Balıkçılık"]`)
	answer(t, question.ID, second.UUID, `["Yüzme"]`)

	entries, err := NewQuestionService().GetAnswerDomain(context.Background(), question.ID, nil)
	if err != nil {
		t.Fatalf("GetAnswerDomain: %v", err)
	}
	counts := map[string]int64{}
	for _, e := range entries {
		counts[e.Answer] = e.Surveys
	}
	if counts["Yüzme"] != 2 || counts["Balıkçılık"] != 1 {
		t.Fatalf("dağılım: %v", counts)
	}
}

// Filtre, dağılımı filtre sorusuna istenen cevabı veren respondant'larla
// sınırlar.
func TestGetAnswerDomainWithRespondantFilter(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	nameQ := questionBySlug(t, survey, "name")
	ageQ := questionBySlug(t, survey, "age")

	young := seedRespondant(t, survey.ID)
	old := seedRespondant(t, survey.ID)

	answer(t, ageQ.ID, young.UUID, `25`)
	answer(t, ageQ.ID, old.UUID, `70`)
	answer(t, nameQ.ID, young.UUID, `"Mehmet"`)
	answer(t, nameQ.ID, old.UUID, `"Ayşe"`)

	entries, err := NewQuestionService().GetAnswerDomain(context.Background(), nameQ.ID, []repositories.AnswerDomainFilter{
		{Slug: "age", Values: []string{"25"}},
	})
	if err != nil {
		t.Fatalf("GetAnswerDomain: %v", err)
	}
	if len(entries) != 1 || entries[0].Answer != "Mehmet" {
		t.Fatalf("filtreli dağılım: %+v", entries)
	}

	// Boş değer listeli filtre elenir; dağılım daralmaz.
	entries, err = NewQuestionService().GetAnswerDomain(context.Background(), nameQ.ID, []repositories.AnswerDomainFilter{
		{Slug: "age", Values: nil},
	})
	if err != nil {
		t.Fatalf("GetAnswerDomain: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("boş filtre daraltmamalı: %+v", entries)
	}
}

func TestGetAnswerDomainMapMultipoint(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	question := questionBySlug(t, survey, "spots")

	first := seedRespondant(t, survey.ID)
	second := seedRespondant(t, survey.ID)

	answer(t, question.ID, first.UUID, `[{"lat":41.0,"lng":29.0,"answers":[[{"text":"Çöp","label":"litter"}]]}]`)
	answer(t, question.ID, second.UUID, `[{"lat":41.0,"lng":29.0,"answers":[[{"text":"Çöp","label":"litter"}]]}]`)

	entries, err := NewQuestionService().GetAnswerDomain(context.Background(), question.ID, nil)
	if err != nil {
		t.Fatalf("GetAnswerDomain: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("aynı cevap+nokta tek satırda toplanmalı: %+v", entries)
	}
	e := entries[0]
	if e.Answer != "Çöp" || e.Surveys != 2 {
		t.Fatalf("dağılım: %+v", e)
	}
	if e.Lat == nil || *e.Lat != 41.0 || e.Lng == nil || *e.Lng != 29.0 {
		t.Fatalf("koordinatlar: %+v", e)
	}
	if e.Locations == nil || *e.Locations != 2 {
		t.Fatalf("nokta sayısı: %+v", e)
	}
}

func TestGetAnswerDomainUnknownQuestion(t *testing.T) {
	setupTestDB(t)

	_, err := NewQuestionService().GetAnswerDomain(context.Background(), 999, nil)
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("ErrQuestionNotFound bekleniyordu, geldi: %v", err)
	}
}
