package flatexport

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"anket.link/models"
)

func strPtr(s string) *string        { return &s }
func floatPtr(v float64) *float64    { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func testRespondant() *models.Respondant {
	ts := time.Date(2014, 6, 5, 14, 30, 0, 0, time.UTC)
	return &models.Respondant{
		UUID:         "abc_123",
		SurveyorName: "Ayşe",
		Email:        strPtr("ayse@example.com"),
		Complete:     true,
		ReviewStatus: models.ReviewStatusFlagged,
		Ts:           ts,
	}
}

func TestFlatDictMetadata(t *testing.T) {
	flat, err := FlatDict(testRespondant())
	if err != nil {
		t.Fatalf("FlatDict: %v", err)
	}
	want := map[string]string{
		"model-surveyor":      "Ayşe",
		"model-timestamp":     "2014-06-05 14:30:00",
		"model-email":         "ayse@example.com",
		"model-complete":      "true",
		"model-review-status": "Flagged",
	}
	if !reflect.DeepEqual(flat, want) {
		t.Fatalf("meta alanlar: got %v, want %v", flat, want)
	}
}

func TestFlatDictNilEmail(t *testing.T) {
	r := testRespondant()
	r.Email = nil
	flat, err := FlatDict(r)
	if err != nil {
		t.Fatalf("FlatDict: %v", err)
	}
	if flat["model-email"] != "" {
		t.Fatalf("nil e-posta boş string olmalı: %q", flat["model-email"])
	}
}

func TestResponseFieldsByType(t *testing.T) {
	date := time.Date(2014, 6, 5, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		resp models.Response
		want map[string]string
	}{
		{
			name: "text",
			resp: models.Response{
				AnswerRaw: `"x"`,
				Answer:    strPtr("merhaba"),
				Question:  models.Question{Slug: "greeting", Type: models.QuestionTypeText},
			},
			want: map[string]string{"greeting": "merhaba"},
		},
		{
			name: "multi-select joined display",
			resp: models.Response{
				AnswerRaw: `[...]`,
				Answer:    strPtr("Yüzme, Balıkçılık"),
				Question:  models.Question{Slug: "acts", Type: models.QuestionTypeMultiSelect},
			},
			want: map[string]string{"acts": "Yüzme, Balıkçılık"},
		},
		{
			name: "number",
			resp: models.Response{
				AnswerRaw:    `12.5`,
				AnswerNumber: floatPtr(12.5),
				Question:     models.Question{Slug: "age", Type: models.QuestionTypeNumber},
			},
			want: map[string]string{"age": "12.5"},
		},
		{
			name: "number without projection",
			resp: models.Response{
				AnswerRaw: `"bilmiyorum"`,
				Question:  models.Question{Slug: "age", Type: models.QuestionTypeInteger},
			},
			want: map[string]string{"age": ""},
		},
		{
			name: "datepicker",
			resp: models.Response{
				AnswerRaw:  `"06/05/2014"`,
				AnswerDate: timePtr(date),
				Question:   models.Question{Slug: "visit", Type: models.QuestionTypeDatePicker},
			},
			want: map[string]string{"visit": "06/05/2014"},
		},
		{
			name: "grid expands per row",
			resp: models.Response{
				AnswerRaw: `[...]`,
				Question:  models.Question{Slug: "ratings", Type: models.QuestionTypeGrid},
				GridAnswers: []models.GridAnswer{
					{RowLabel: "plaj", AnswerText: "4"},
					{RowLabel: "park", AnswerText: "2"},
				},
			},
			want: map[string]string{"ratings-plaj": "4", "ratings-park": "2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResponseFields(&tt.resp)
			if err != nil {
				t.Fatalf("ResponseFields: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResponseFieldsSkipsUnanswered(t *testing.T) {
	resp := models.Response{Question: models.Question{Slug: "q", Type: models.QuestionTypeText}}
	got, err := ResponseFields(&resp)
	if err != nil {
		t.Fatalf("ResponseFields: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("cevaplanmamış soru girdi üretmemeli: %v", got)
	}
}

// datetimepicker ve location düzleştirme tablosunda yer almaz; cevaplanmışsa
// hata üretilir.
func TestResponseFieldsUnsupportedType(t *testing.T) {
	resp := models.Response{
		BaseModel: models.BaseModel{ID: 7},
		AnswerRaw: `"x"`,
		Question:  models.Question{Slug: "when", Type: models.QuestionTypeDateTimePicker},
	}
	_, err := ResponseFields(&resp)
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("UnsupportedTypeError bekleniyordu, geldi: %v", err)
	}
	if unsupported.ResponseID != 7 {
		t.Fatalf("hata response ID taşımalı: %+v", unsupported)
	}
}

func TestFlatDictDeterministic(t *testing.T) {
	r := testRespondant()
	r.Responses = []models.Response{
		{
			AnswerRaw: `"x"`,
			Answer:    strPtr("merhaba"),
			Question:  models.Question{Slug: "greeting", Type: models.QuestionTypeText},
		},
	}
	first, err := FlatDict(r)
	if err != nil {
		t.Fatalf("FlatDict: %v", err)
	}
	second, err := FlatDict(r)
	if err != nil {
		t.Fatalf("FlatDict: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("aynı girdi aynı eşlemeyi üretmeli: %v != %v", first, second)
	}
}

func TestFieldNames(t *testing.T) {
	survey := &models.Survey{
		Questions: []models.Question{
			{Slug: "name", Label: "Adınız", Type: models.QuestionTypeText},
			{
				Slug:  "ratings",
				Label: "Alan puanları",
				Type:  models.QuestionTypeGrid,
				Rows:  "Plaj\nPark (Merkez)",
			},
		},
	}
	fields := FieldNames(survey, nil)

	if len(fields) != 5+1+2 {
		t.Fatalf("alan sayısı: %d (%v)", len(fields), fields)
	}
	if fields[0].Slug != "model-surveyor" || fields[4].Slug != "model-review-status" {
		t.Fatalf("meta alanlar önce gelmeli: %v", fields[:5])
	}
	if fields[5].Slug != "name" {
		t.Fatalf("soru alanı: %+v", fields[5])
	}
	// Satır slug'ı: küçük harf, boşluk yerine tire, parantez atılır.
	if fields[6].Slug != "ratings-plaj" || fields[7].Slug != "ratings-park-merkez" {
		t.Fatalf("grid satır slug'ları: %+v", fields[6:])
	}
	if fields[7].Label != "Alan puanları - Park (Merkez)" {
		t.Fatalf("grid etiket: %+v", fields[7])
	}
}

func TestFieldNamesDynamicGridRows(t *testing.T) {
	survey := &models.Survey{
		Questions: []models.Question{
			{
				BaseModel: models.BaseModel{ID: 3},
				Slug:      "spots",
				Label:     "Noktalar",
				Type:      models.QuestionTypeGrid,
			},
		},
	}
	dynamic := map[uint][][2]string{
		3: {{"iskele", "İskele"}, {"liman", "Liman"}},
	}
	fields := FieldNames(survey, dynamic)

	if len(fields) != 5+2 {
		t.Fatalf("alan sayısı: %d", len(fields))
	}
	if fields[5].Slug != "spots-iskele" || fields[5].Label != "Noktalar - İskele" {
		t.Fatalf("dinamik satır: %+v", fields[5])
	}
	if fields[6].Slug != "spots-liman" {
		t.Fatalf("dinamik satır: %+v", fields[6])
	}
}
