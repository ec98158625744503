package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"anket.link/models"
)

func TestCreateResponseMultiSelectFanOut(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)
	question := questionBySlug(t, survey, "activities")

	svc := NewResponseService()
	raw := `[{"text":"Yüzme","label":"swimming"},{"text":"Balıkçılık","label":"fishing"}]`
	response, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     question.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      raw,
		Ts:             time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	if response.Answer == nil || *response.Answer != "Yüzme, Balıkçılık" {
		t.Fatalf("birleşik görüntü: %v", response.Answer)
	}

	var multi []models.MultiAnswer
	if err := db.Where("response_id = ?", response.ID).Order("id").Find(&multi).Error; err != nil {
		t.Fatalf("multi_answers: %v", err)
	}
	if len(multi) != 2 {
		t.Fatalf("seçim başına bir satır bekleniyordu: %+v", multi)
	}
	if multi[0].AnswerText != "Yüzme" || multi[0].AnswerLabel != "swimming" {
		t.Fatalf("ilk satır: %+v", multi[0])
	}
}

func TestCreateResponseGridCells(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)
	question := questionBySlug(t, survey, "ratings")

	svc := NewResponseService()
	raw := `[{"label":"plaj","text":"Plaj","rating":4},{"label":"park","text":"Park","rating":2}]`
	response, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     question.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      raw,
		Ts:             time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	var cells []models.GridAnswer
	if err := db.Where("response_id = ?", response.ID).Order("id").Find(&cells).Error; err != nil {
		t.Fatalf("grid_answers: %v", err)
	}
	if len(cells) != 2 {
		t.Fatalf("satır başına bir hücre bekleniyordu: %+v", cells)
	}
	if cells[0].RowLabel != "plaj" || cells[0].ColLabel != "rating" || cells[0].AnswerText != "4" {
		t.Fatalf("ilk hücre: %+v", cells[0])
	}
	if cells[0].AnswerNumber == nil || *cells[0].AnswerNumber != 4 {
		t.Fatalf("sayısal hücre Number doldurmalı: %+v", cells[0])
	}
}

func TestCreateResponseMapMultipoint(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)
	question := questionBySlug(t, survey, "spots")

	svc := NewResponseService()
	raw := `[{"lat":41.0,"lng":29.0,"answers":[[{"text":"Çöp","label":"litter"}]]},` +
		`{"lat":40.5,"lng":28.5,"answers":[]}]`
	response, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     question.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      raw,
		Ts:             time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	var locations []models.Location
	if err := db.Where("response_id = ?", response.ID).Order("id").Find(&locations).Error; err != nil {
		t.Fatalf("locations: %v", err)
	}
	if len(locations) != 2 {
		t.Fatalf("nokta başına bir satır bekleniyordu: %+v", locations)
	}
	if locations[0].RespondantUUID != respondant.UUID {
		t.Fatalf("nokta respondant'a bağlanmalı: %+v", locations[0])
	}

	var answers []models.LocationAnswer
	if err := db.Where("location_id = ?", locations[0].ID).Find(&answers).Error; err != nil {
		t.Fatalf("location_answers: %v", err)
	}
	if len(answers) != 1 || answers[0].Answer != "Çöp" {
		t.Fatalf("alt cevaplar: %+v", answers)
	}

	// Kayıt boru hattı Locations sayacını eşitlemiş olmalı.
	var fresh models.Respondant
	if err := db.Where("uuid = ?", respondant.UUID).First(&fresh).Error; err != nil {
		t.Fatalf("respondant: %v", err)
	}
	if fresh.Locations == nil || *fresh.Locations != 2 {
		t.Fatalf("locations sayacı: %v", fresh.Locations)
	}
}

func TestCreateResponseFilterByAndLastQuestion(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)
	question := questionBySlug(t, survey, "age")

	svc := NewResponseService()
	if _, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     question.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      `27`,
		Ts:             time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	var field models.RespondantField
	err := db.Where("respondant_uuid = ? AND slug = ?", respondant.UUID, "age").First(&field).Error
	if err != nil {
		t.Fatalf("filtre alanı oluşmalı: %v", err)
	}
	if field.Value != "27" {
		t.Fatalf("filtre değeri: %q", field.Value)
	}

	var fresh models.Respondant
	if err := db.Where("uuid = ?", respondant.UUID).First(&fresh).Error; err != nil {
		t.Fatalf("respondant: %v", err)
	}
	if fresh.LastQuestion != "age" {
		t.Fatalf("last_question: %q", fresh.LastQuestion)
	}
}

func TestCreateResponseRefreshesExportRow(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)
	question := questionBySlug(t, survey, "name")

	svc := NewResponseService()
	if _, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     question.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      `"Mehmet"`,
		Ts:             time.Now().UTC(),
	}); err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	var fresh models.Respondant
	if err := db.Preload("ExportRow").Where("uuid = ?", respondant.UUID).First(&fresh).Error; err != nil {
		t.Fatalf("respondant: %v", err)
	}
	if fresh.ExportRow == nil || fresh.ExportRow.JSONData == "" {
		t.Fatal("export row dolmalı")
	}

	var flat map[string]string
	if err := json.Unmarshal([]byte(fresh.ExportRow.JSONData), &flat); err != nil {
		t.Fatalf("export row JSON: %v", err)
	}
	if flat["name"] != "Mehmet" {
		t.Fatalf("export satırı cevabı içermeli: %v", flat)
	}
	if flat["model-surveyor"] != "Ayşe" {
		t.Fatalf("export satırı meta alanları içermeli: %v", flat)
	}
}

func TestCreateResponseUnknownQuestionTypeRollsBack(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)

	bad := models.Question{
		SurveyID: survey.ID,
		Title:    "Garip soru",
		Label:    "Garip",
		Slug:     "odd",
		Type:     models.QuestionType("hologram"),
		Order:    9,
	}
	if err := db.Create(&bad).Error; err != nil {
		t.Fatalf("soru oluşturulamadı: %v", err)
	}

	svc := NewResponseService()
	_, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     bad.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      `"x"`,
		Ts:             time.Now().UTC(),
	})
	if !errors.Is(err, ErrUnsupportedQuestionType) {
		t.Fatalf("ErrUnsupportedQuestionType bekleniyordu, geldi: %v", err)
	}

	// Transaction geri alınmış olmalı; cevap kalıcılaşmaz.
	var count int64
	if err := db.Model(&models.Response{}).Where("question_id = ?", bad.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("başarısız normalizasyon cevap bırakmamalı: %d", count)
	}
}

func TestUpdateResponseRawDoesNotRenormalize(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)
	question := questionBySlug(t, survey, "activities")

	svc := NewResponseService()
	response, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     question.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      `["Yüzme","Balıkçılık"]`,
		Ts:             time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateResponse: %v", err)
	}

	if err := svc.UpdateResponseRaw(context.Background(), response.ID, `["Dalış"]`); err != nil {
		t.Fatalf("UpdateResponseRaw: %v", err)
	}

	fresh, err := svc.GetResponseByID(context.Background(), response.ID)
	if err != nil {
		t.Fatalf("GetResponseByID: %v", err)
	}
	if fresh.AnswerRaw != `["Dalış"]` {
		t.Fatalf("ham cevap güncellenmeli: %q", fresh.AnswerRaw)
	}
	// Türetilmiş kayıtlar yalnızca oluşturma anında üretilir.
	if fresh.Answer == nil || *fresh.Answer != "Yüzme, Balıkçılık" {
		t.Fatalf("görüntü değişmemeli: %v", fresh.Answer)
	}
	if len(fresh.MultiAnswers) != 2 {
		t.Fatalf("çocuk set değişmemeli: %+v", fresh.MultiAnswers)
	}
}

func TestCreateResponseNumericNonNumber(t *testing.T) {
	db := setupTestDB(t)
	survey := seedSurvey(t, db)
	respondant := seedRespondant(t, survey.ID)
	question := questionBySlug(t, survey, "age")

	svc := NewResponseService()
	response, err := svc.CreateResponse(context.Background(), CreateResponseInput{
		QuestionID:     question.ID,
		RespondantUUID: respondant.UUID,
		AnswerRaw:      `"bilmiyorum"`,
		Ts:             time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("sayı olmayan değer hata üretmemeli: %v", err)
	}
	if response.Answer != nil || response.AnswerNumber != nil {
		t.Fatalf("projeksiyonlar boş kalmalı: %+v", response)
	}
	if response.AnswerRaw != `"bilmiyorum"` {
		t.Fatalf("ham cevap saklanmalı: %q", response.AnswerRaw)
	}
}
