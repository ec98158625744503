package repositories

import (
	"context"
	"errors"

	"anket.link/configs"
	"anket.link/configs/configslog"
	"anket.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnswerDomainEntry bir sorunun cevap dağılımındaki tek satırdır: tekil cevap,
// kaç ankette görüldüğü ve (geo tiplerinde) nokta bilgisi/nokta toplamı.
type AnswerDomainEntry struct {
	Answer    string   `json:"answer"`
	Surveys   int64    `json:"surveys"`
	Locations *int64   `json:"locations,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
}

// AnswerDomainFilter başka bir sorunun cevabına göre kısıtlama: filtre
// sorusunun slug'ı ve kabul edilen cevap değerleri.
type AnswerDomainFilter struct {
	Slug   string   `json:"slug"`
	Values []string `json:"values"`
}

// IQuestionRepository soru veritabanı işlemleri için arayüz.
type IQuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	FindByID(ctx context.Context, id uint) (*models.Question, error)
	FindBySlug(ctx context.Context, surveyID uint, slug string) (*models.Question, error)
	AnswerDomain(ctx context.Context, question *models.Question, filters []AnswerDomainFilter) ([]AnswerDomainEntry, error)
	DistinctGridRows(ctx context.Context, questionID uint) ([][2]string, error)
}

// QuestionRepository IQuestionRepository arayüzünü uygular.
type QuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository yeni bir QuestionRepository örneği oluşturur.
func NewQuestionRepository() IQuestionRepository {
	return &QuestionRepository{db: configs.GetDB()}
}

// NewQuestionRepositoryTx transaction'a bağlı QuestionRepository oluşturur.
func NewQuestionRepositoryTx(tx *gorm.DB) IQuestionRepository {
	return &QuestionRepository{db: tx}
}

func (r *QuestionRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create yeni bir soru oluşturur.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question == nil || question.Slug == "" || question.SurveyID == 0 {
		return errors.New("slug'sız veya anketsiz soru oluşturulamaz")
	}
	return r.getDB(ctx).Create(question).Error
}

// FindByID soruyu grid sütun tanımlarıyla birlikte bulur.
func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*models.Question, error) {
	if id == 0 {
		return nil, errors.New("geçersiz Question ID")
	}
	var question models.Question
	err := r.getDB(ctx).Preload("GridCols").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("QuestionRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &question, nil
}

// FindBySlug aynı anketteki soruyu slug ile bulur.
func (r *QuestionRepository) FindBySlug(ctx context.Context, surveyID uint, slug string) (*models.Question, error) {
	if surveyID == 0 || slug == "" {
		return nil, errors.New("geçersiz anket ID veya soru slug")
	}
	var question models.Question
	err := r.getDB(ctx).Preload("GridCols").
		Where("survey_id = ? AND slug = ?", surveyID, slug).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("QuestionRepository.FindBySlug: DB error",
			zap.Uint("surveyID", surveyID), zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &question, nil
}

// AnswerDomain sorunun tekil cevap dağılımını döndürür. Varsayılan kaynak
// responses.answer'dır; multi-select multi_answers üzerinden, map-multipoint
// location_answers üzerinden (lat/lng ile) toplanır. Filtreler dağılımı,
// filtre sorusuna verilen cevabı istenen değerlerden biri olan
// respondant'larla sınırlar.
func (r *QuestionRepository) AnswerDomain(ctx context.Context, question *models.Question, filters []AnswerDomainFilter) ([]AnswerDomainEntry, error) {
	if question == nil || question.ID == 0 {
		return nil, errors.New("geçersiz soru")
	}
	db := r.getDB(ctx)

	switch question.Type {
	case models.QuestionTypeMapMultipoint:
		query := db.Table("location_answers").
			Select("location_answers.answer AS answer, locations.lat AS lat, locations.lng AS lng, "+
				"COUNT(location_answers.answer) AS locations, "+
				"COUNT(DISTINCT locations.respondant_uuid) AS surveys").
			Joins("JOIN locations ON locations.id = location_answers.location_id").
			Joins("JOIN responses ON responses.id = locations.response_id").
			Where("responses.question_id = ? AND responses.deleted_at IS NULL", question.ID).
			Group("location_answers.answer, locations.lat, locations.lng")
		for _, f := range filters {
			if f.Slug == question.Slug {
				// Filtre sorunun kendisiyse doğrudan nokta cevapları kısıtlanır.
				query = query.Where("location_answers.answer IN ?", f.Values)
				continue
			}
			query = r.applyRespondantFilter(query, "locations.respondant_uuid", question.SurveyID, f)
		}
		var entries []AnswerDomainEntry
		if err := query.Scan(&entries).Error; err != nil {
			configslog.Log.Error("QuestionRepository.AnswerDomain (map): DB error",
				zap.Uint("questionID", question.ID), zap.Error(err))
			return nil, err
		}
		return entries, nil

	case models.QuestionTypeMultiSelect:
		query := db.Table("multi_answers").
			Select("multi_answers.answer_text AS answer, COUNT(multi_answers.answer_text) AS surveys").
			Joins("JOIN responses ON responses.id = multi_answers.response_id").
			Where("responses.question_id = ? AND responses.deleted_at IS NULL", question.ID).
			Group("multi_answers.answer_text")
		for _, f := range filters {
			query = r.applyRespondantFilter(query, "responses.respondant_uuid", question.SurveyID, f)
		}
		var entries []AnswerDomainEntry
		if err := query.Scan(&entries).Error; err != nil {
			configslog.Log.Error("QuestionRepository.AnswerDomain (multi): DB error",
				zap.Uint("questionID", question.ID), zap.Error(err))
			return nil, err
		}
		return entries, nil

	default:
		query := db.Table("responses").
			Select("responses.answer AS answer, COUNT(responses.answer) AS surveys, "+
				"SUM(respondants.locations) AS locations").
			Joins("JOIN respondants ON respondants.uuid = responses.respondant_uuid").
			Where("responses.question_id = ? AND responses.deleted_at IS NULL", question.ID).
			Group("responses.answer")
		for _, f := range filters {
			query = r.applyRespondantFilter(query, "responses.respondant_uuid", question.SurveyID, f)
		}
		var entries []AnswerDomainEntry
		if err := query.Scan(&entries).Error; err != nil {
			configslog.Log.Error("QuestionRepository.AnswerDomain: DB error",
				zap.Uint("questionID", question.ID), zap.Error(err))
			return nil, err
		}
		return entries, nil
	}
}

// applyRespondantFilter sorguyu, filtre sorusuna verilen cevabı istenen
// değerlerden biri olan respondant'larla sınırlar.
func (r *QuestionRepository) applyRespondantFilter(query *gorm.DB, uuidColumn string, surveyID uint, f AnswerDomainFilter) *gorm.DB {
	sub := r.db.Table("responses AS filter_responses").
		Select("filter_responses.respondant_uuid").
		Joins("JOIN questions AS filter_questions ON filter_questions.id = filter_responses.question_id").
		Where("filter_questions.survey_id = ? AND filter_questions.slug = ?", surveyID, f.Slug).
		Where("filter_responses.answer IN ? AND filter_responses.deleted_at IS NULL", f.Values)
	return query.Where(uuidColumn+" IN (?)", sub)
}

// DistinctGridRows bir grid sorusunun cevaplarda gözlemlenen tekil satır
// etiketlerini [label, text] çiftleri olarak döndürür. Satır tanımı olmayan
// grid'lerin dışa aktarım alan adları buradan türetilir.
func (r *QuestionRepository) DistinctGridRows(ctx context.Context, questionID uint) ([][2]string, error) {
	if questionID == 0 {
		return nil, errors.New("geçersiz Question ID")
	}
	var rows []struct {
		RowLabel string
		RowText  string
	}
	err := r.getDB(ctx).Table("grid_answers").
		Select("DISTINCT grid_answers.row_label, grid_answers.row_text").
		Joins("JOIN responses ON responses.id = grid_answers.response_id").
		Where("responses.question_id = ? AND responses.deleted_at IS NULL AND grid_answers.row_label <> ''", questionID).
		Order("grid_answers.row_label").
		Scan(&rows).Error
	if err != nil {
		configslog.Log.Error("QuestionRepository.DistinctGridRows: DB error",
			zap.Uint("questionID", questionID), zap.Error(err))
		return nil, err
	}
	pairs := make([][2]string, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, [2]string{row.RowLabel, row.RowText})
	}
	return pairs, nil
}

var _ IQuestionRepository = (*QuestionRepository)(nil)
