// Package flatexport bir Respondant'ı ve cevaplarını raporlama için düz bir
// alan→değer eşlemesine indirger. Fonksiyonlar saftır: aynı girdi için bayt
// bazında aynı eşlemeyi üretir, I/O yapmaz. Kalıcı ExportRow önbelleğini
// servis katmanı yönetir.
package flatexport

import (
	"fmt"
	"strconv"

	"anket.link/models"
	"anket.link/pkg/normalize"
)

// Zaman damgası eşlemede saniye hassasiyetinde, UTC olarak yazılır.
const timestampLayout = "2006-01-02 15:04:05"

// MetadataFields sabit meta alanların sıralı slug→etiket listesi.
// Reporting katmanı CSV başlıklarını bu sırayla üretir.
func MetadataFields() []Field {
	return []Field{
		{Slug: "model-surveyor", Label: "Surveyor"},
		{Slug: "model-timestamp", Label: "Date of survey"},
		{Slug: "model-email", Label: "Email"},
		{Slug: "model-complete", Label: "Complete"},
		{Slug: "model-review-status", Label: "Review Status"},
	}
}

// Field dışa aktarım alanının slug'ı ve insan okunur etiketi.
type Field struct {
	Slug  string
	Label string
}

// UnsupportedTypeError düzleştirme tablosunda karşılığı olmayan bir soru
// tipinin cevaplanmış bir Response üzerinden geldiğini bildirir.
type UnsupportedTypeError struct {
	Type       models.QuestionType
	ResponseID uint
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("response %d işlenirken bilinmeyen soru tipi %q bulundu",
		e.ResponseID, string(e.Type))
}

// FlatDict sabit meta alanları ve cevaplanmış her soru için bir girdiyi
// birleştirir. Respondant'ın Responses ilişkisi Question ve GridAnswers ile
// birlikte yüklenmiş olmalıdır. Aynı Respondant için tekrar çağrıldığında
// birebir aynı eşleme üretilir.
func FlatDict(r *models.Respondant) (map[string]string, error) {
	flat := map[string]string{
		"model-surveyor":      r.SurveyorName,
		"model-timestamp":     r.Ts.UTC().Format(timestampLayout),
		"model-email":         stringOrEmpty(r.Email),
		"model-complete":      strconv.FormatBool(r.Complete),
		"model-review-status": r.ReviewStatus.Display(),
	}

	for i := range r.Responses {
		entries, err := ResponseFields(&r.Responses[i])
		if err != nil {
			return nil, err
		}
		for slug, value := range entries {
			flat[slug] = value
		}
	}
	return flat, nil
}

// ResponseFields tek bir cevabın düz eşlemedeki girdilerini üretir.
// Cevaplanmamış (AnswerRaw boş) Response hiç girdi üretmez.
func ResponseFields(resp *models.Response) (map[string]string, error) {
	if resp.AnswerRaw == "" {
		return nil, nil
	}
	q := resp.Question
	flat := map[string]string{}

	switch q.Type {
	case models.QuestionTypeInfo, models.QuestionTypeText, models.QuestionTypeTextArea,
		models.QuestionTypeYesNo, models.QuestionTypeSingleSelect,
		models.QuestionTypeAutoSingleSelect, models.QuestionTypeMapMultipoint,
		models.QuestionTypePennies, models.QuestionTypeTimePicker,
		models.QuestionTypeMultiSelect:
		flat[q.Slug] = stringOrEmpty(resp.Answer)

	case models.QuestionTypeCurrency, models.QuestionTypeInteger, models.QuestionTypeNumber:
		if resp.AnswerNumber != nil {
			flat[q.Slug] = normalize.FormatNumber(*resp.AnswerNumber)
		} else {
			flat[q.Slug] = ""
		}

	case models.QuestionTypeDatePicker:
		if resp.AnswerDate != nil {
			flat[q.Slug] = resp.AnswerDate.Format(normalize.DateLayout)
		} else {
			flat[q.Slug] = ""
		}

	case models.QuestionTypeGrid:
		for i := range resp.GridAnswers {
			ga := &resp.GridAnswers[i]
			flat[q.Slug+"-"+ga.RowLabel] = ga.AnswerText
		}

	default:
		return nil, &UnsupportedTypeError{Type: q.Type, ResponseID: resp.ID}
	}
	return flat, nil
}

// FieldNames anketin sıralı alan listesini üretir: önce meta alanlar, sonra
// soru sırasına göre her sorunun girdileri. Grid soruları satır başına bir
// alana açılır; satır tanımı olmayan grid'ler için gözlemlenen satırlar
// dynamicGridRows ile (soru ID → [label,text] çiftleri) verilir.
func FieldNames(survey *models.Survey, dynamicGridRows map[uint][][2]string) []Field {
	fields := MetadataFields()

	for i := range survey.Questions {
		q := &survey.Questions[i]
		if q.Type == models.QuestionTypeGrid {
			if rows := q.RowLines(); len(rows) > 0 {
				for _, row := range rows {
					fields = append(fields, Field{
						Slug:  q.Slug + "-" + models.SlugifyRow(row),
						Label: q.Label + " - " + row,
					})
				}
				continue
			}
			for _, pair := range dynamicGridRows[q.ID] {
				fields = append(fields, Field{
					Slug:  q.Slug + "-" + pair[0],
					Label: q.Label + " - " + pair[1],
				})
			}
			continue
		}
		fields = append(fields, Field{Slug: q.Slug, Label: q.Label})
	}
	return fields
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
