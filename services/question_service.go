package services

import (
	"context"
	"errors"

	"anket.link/models"
	"anket.link/repositories"
)

// QuestionServiceError özel servis hataları
type QuestionServiceError string

func (e QuestionServiceError) Error() string { return string(e) }

const (
	ErrQuestionNotFound  QuestionServiceError = "soru bulunamadı"
	ErrQstInvalidInput   QuestionServiceError = "geçersiz girdi verisi"
	ErrAnswerDomainQuery QuestionServiceError = "cevap dağılımı sorgulanamadı"
)

// IQuestionService soru işlemleri için arayüz.
type IQuestionService interface {
	GetQuestionByID(ctx context.Context, id uint) (*models.Question, error)
	GetAnswerDomain(ctx context.Context, questionID uint, filters []repositories.AnswerDomainFilter) ([]repositories.AnswerDomainEntry, error)
}

// QuestionService IQuestionService arayüzünü uygular.
type QuestionService struct {
	repo repositories.IQuestionRepository
}

// NewQuestionService yeni bir QuestionService örneği oluşturur.
func NewQuestionService() IQuestionService {
	return &QuestionService{repo: repositories.NewQuestionRepository()}
}

// GetQuestionByID soruyu grid sütunlarıyla birlikte getirir.
func (s *QuestionService) GetQuestionByID(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

// GetAnswerDomain sorunun tekil cevap dağılımını, isteğe bağlı respondant
// filtreleriyle döndürür. Boş değer listeli filtreler elenir.
func (s *QuestionService) GetAnswerDomain(ctx context.Context, questionID uint, filters []repositories.AnswerDomainFilter) ([]repositories.AnswerDomainEntry, error) {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	effective := make([]repositories.AnswerDomainFilter, 0, len(filters))
	for _, f := range filters {
		if f.Slug == "" || len(f.Values) == 0 {
			continue
		}
		effective = append(effective, f)
	}

	entries, err := s.repo.AnswerDomain(ctx, question, effective)
	if err != nil {
		return nil, ErrAnswerDomainQuery
	}
	return entries, nil
}

var _ IQuestionService = (*QuestionService)(nil)
