package services

import (
	"context"
	"errors"
	"fmt"

	"anket.link/configs/configslog"
	"anket.link/models"
	"anket.link/pkg/flatexport"
	"anket.link/repositories"
)

// SurveyServiceError özel servis hataları
type SurveyServiceError string

func (e SurveyServiceError) Error() string { return string(e) }

const (
	ErrSurveyNotFound       SurveyServiceError = "anket bulunamadı"
	ErrSurveyCreationFailed SurveyServiceError = "anket oluşturulamadı"
	ErrSrvInvalidInput      SurveyServiceError = "geçersiz girdi verisi"
)

// ISurveyService anket işlemleri için arayüz.
type ISurveyService interface {
	CreateSurvey(ctx context.Context, survey *models.Survey) error
	GetSurveyBySlug(ctx context.Context, slug string) (*models.Survey, error)
	GetStats(ctx context.Context, slug string) (*repositories.SurveyStats, error)
	GetFieldNames(ctx context.Context, slug string) ([]flatexport.Field, error)
	CountSurveys(ctx context.Context) (int64, error)
}

// SurveyService ISurveyService arayüzünü uygular.
type SurveyService struct {
	repo           repositories.ISurveyRepository
	questionRepo   repositories.IQuestionRepository
	respondantRepo repositories.IRespondantRepository
}

// NewSurveyService yeni bir SurveyService örneği oluşturur.
func NewSurveyService() ISurveyService {
	return &SurveyService{
		repo:           repositories.NewSurveyRepository(),
		questionRepo:   repositories.NewQuestionRepository(),
		respondantRepo: repositories.NewRespondantRepository(),
	}
}

// CreateSurvey anketi sorularıyla birlikte oluşturur.
func (s *SurveyService) CreateSurvey(ctx context.Context, survey *models.Survey) error {
	if survey == nil || survey.Name == "" || survey.Slug == "" {
		return fmt.Errorf("%w: ad ve slug zorunlu", ErrSrvInvalidInput)
	}
	if err := s.repo.Create(ctx, survey); err != nil {
		configslog.SLog.Errorf("Anket oluşturulamadı (%s): %v", survey.Slug, err)
		return ErrSurveyCreationFailed
	}
	configslog.SLog.Infof("Anket oluşturuldu: %s (ID: %d)", survey.Slug, survey.ID)
	return nil
}

// GetSurveyBySlug anketi sıralı soruları ve grid sütunlarıyla getirir.
func (s *SurveyService) GetSurveyBySlug(ctx context.Context, slug string) (*models.Survey, error) {
	survey, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}
	return survey, nil
}

// GetStats anketin respondant tablosundan türetilen özet sayaçlarını döndürür.
func (s *SurveyService) GetStats(ctx context.Context, slug string) (*repositories.SurveyStats, error) {
	survey, err := s.GetSurveyBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.respondantRepo.Stats(ctx, survey.ID)
}

// GetFieldNames anketin düz dışa aktarım sütunlarını sıralı döndürür.
// Satır tanımı olmayan grid soruları, cevaplarda gözlemlenen tekil satırlara
// göre açılır.
func (s *SurveyService) GetFieldNames(ctx context.Context, slug string) ([]flatexport.Field, error) {
	survey, err := s.GetSurveyBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var dynamicRows map[uint][][2]string
	for i := range survey.Questions {
		q := &survey.Questions[i]
		if q.Type != models.QuestionTypeGrid || len(q.RowLines()) > 0 {
			continue
		}
		rows, err := s.questionRepo.DistinctGridRows(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		if dynamicRows == nil {
			dynamicRows = make(map[uint][][2]string)
		}
		dynamicRows[q.ID] = rows
	}
	return flatexport.FieldNames(survey, dynamicRows), nil
}

// CountSurveys kayıtlı anket sayısını döndürür.
func (s *SurveyService) CountSurveys(ctx context.Context) (int64, error) {
	count, err := s.repo.CountAll(ctx)
	if err != nil {
		configslog.SLog.Errorf("Anketler sayılamadı: %v", err)
		return 0, err
	}
	return count, nil
}

var _ ISurveyService = (*SurveyService)(nil)
