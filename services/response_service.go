package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anket.link/configs"
	"anket.link/configs/configslog"
	"anket.link/models"
	"anket.link/pkg/normalize"
	"anket.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResponseServiceError özel servis hataları
type ResponseServiceError string

func (e ResponseServiceError) Error() string { return string(e) }

const (
	ErrResponseNotFound            ResponseServiceError = "cevap bulunamadı"
	ErrResponseCreationFailed      ResponseServiceError = "cevap oluşturulamadı"
	ErrQuestionNotFoundForAnswer   ResponseServiceError = "cevap için soru bulunamadı"
	ErrRespondantNotFoundForAnswer ResponseServiceError = "cevap için respondant bulunamadı"
	ErrUnsupportedQuestionType     ResponseServiceError = "desteklenmeyen soru tipi"
	ErrMalformedAnswerPayload      ResponseServiceError = "cevap verisi çözümlenemedi"
	ErrRspnInvalidInput            ResponseServiceError = "geçersiz girdi verisi"
)

// CreateResponseInput dış katmandan gelen cevap oluşturma isteği.
type CreateResponseInput struct {
	QuestionID     uint
	RespondantUUID string
	AnswerRaw      string    // Client'ın gönderdiği ham JSON; olduğu gibi saklanır
	Ts             time.Time // Client zaman damgası
}

// IResponseService cevap işlemleri için arayüz.
type IResponseService interface {
	CreateResponse(ctx context.Context, input CreateResponseInput) (*models.Response, error)
	UpdateResponseRaw(ctx context.Context, id uint, answerRaw string) error
	GetResponseByID(ctx context.Context, id uint) (*models.Response, error)
}

// ResponseService IResponseService arayüzünü uygular.
type ResponseService struct {
	repo           repositories.IResponseRepository
	questionRepo   repositories.IQuestionRepository
	respondantRepo repositories.IRespondantRepository
	db             *gorm.DB
}

// NewResponseService yeni bir ResponseService örneği oluşturur.
func NewResponseService() IResponseService {
	return &ResponseService{
		repo:           repositories.NewResponseRepository(),
		questionRepo:   repositories.NewQuestionRepository(),
		respondantRepo: repositories.NewRespondantRepository(),
		db:             configs.GetDB(),
	}
}

// CreateResponse ham cevabı kaydeder ve normalizasyonu aynı transaction
// içinde, tam bir kez çalıştırır. Çağıran döndüğümüz anda türetilmiş çocuk
// kayıtlar ve respondant'ın dışa aktarım satırı tutarlıdır; cevap bundan önce
// "oluşturulmuş" sayılmaz.
func (s *ResponseService) CreateResponse(ctx context.Context, input CreateResponseInput) (*models.Response, error) {
	if input.QuestionID == 0 || input.RespondantUUID == "" {
		return nil, fmt.Errorf("%w: soru ve respondant zorunlu", ErrRspnInvalidInput)
	}

	var created *models.Response
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		questionRepo := repositories.NewQuestionRepositoryTx(tx)
		respondantRepo := repositories.NewRespondantRepositoryTx(tx)
		responseRepo := repositories.NewResponseRepositoryTx(tx)

		question, err := questionRepo.FindByID(ctx, input.QuestionID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrQuestionNotFoundForAnswer
			}
			return err
		}
		respondant, err := respondantRepo.FindByUUIDForUpdate(ctx, input.RespondantUUID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRespondantNotFoundForAnswer
			}
			return err
		}

		response := &models.Response{
			QuestionID:     question.ID,
			RespondantUUID: respondant.UUID,
			AnswerRaw:      input.AnswerRaw,
			Ts:             input.Ts,
		}
		if err := responseRepo.Create(ctx, response); err != nil {
			return fmt.Errorf("%w: %v", ErrResponseCreationFailed, err)
		}

		if input.AnswerRaw != "" {
			if err := s.normalizeTx(ctx, tx, response, question, respondant); err != nil {
				return err
			}
		}

		// Respondant kayıt boru hattı: sayaç, satır ataması, içerik.
		if err := refreshRespondantTx(ctx, tx, respondant); err != nil {
			return err
		}
		created = response
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("CreateResponse transaction failed",
			zap.Uint("questionID", input.QuestionID),
			zap.String("respondantUUID", input.RespondantUUID), zap.Error(txErr))
		return nil, txErr
	}

	configslog.SLog.Infof("Cevap oluşturuldu: ID %d (Soru: %d, Respondant: %s)",
		created.ID, input.QuestionID, input.RespondantUUID)
	return created, nil
}

// normalizeTx ham cevabı soru tipine göre türetilmiş alanlara ve çocuk
// kayıtlara açar. Çocuklu tiplerde set her zaman bütün olarak değiştirilir.
func (s *ResponseService) normalizeTx(ctx context.Context, tx *gorm.DB, response *models.Response, question *models.Question, respondant *models.Respondant) error {
	responseRepo := repositories.NewResponseRepositoryTx(tx)
	respondantRepo := repositories.NewRespondantRepositoryTx(tx)

	cols := make([]normalize.GridCol, 0, len(question.GridCols))
	for _, c := range question.GridCols {
		cols = append(cols, normalize.GridCol{Text: c.Text, Label: c.Label, Type: c.Type})
	}

	result, err := normalize.Normalize(question.Type, response.AnswerRaw, cols)
	if err != nil {
		var unsupported *normalize.UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return fmt.Errorf("%w: %q (response %d)", ErrUnsupportedQuestionType, string(unsupported.Type), response.ID)
		}
		var malformed *normalize.MalformedPayloadError
		if errors.As(err, &malformed) {
			return fmt.Errorf("%w: %v", ErrMalformedAnswerPayload, err)
		}
		return err
	}

	// Atlanan grid hücreleri ölümcül değildir; hücre bazında loglanır.
	for _, skipped := range result.Skipped {
		configslog.Log.Warn("Grid hücresi atlandı",
			zap.Uint("responseID", response.ID),
			zap.String("rowLabel", skipped.RowLabel),
			zap.String("colLabel", skipped.ColLabel),
			zap.String("reason", skipped.Reason))
	}

	response.Answer = result.Display
	response.AnswerNumber = result.Number
	response.AnswerDate = result.Date
	if err := responseRepo.Save(ctx, response); err != nil {
		return err
	}

	switch question.Type {
	case models.QuestionTypeMultiSelect:
		multi := make([]models.MultiAnswer, 0, len(result.Multi))
		for _, mv := range result.Multi {
			multi = append(multi, models.MultiAnswer{AnswerText: mv.Text, AnswerLabel: mv.Label})
		}
		if err := responseRepo.ReplaceMultiAnswers(ctx, response.ID, multi); err != nil {
			return err
		}
	case models.QuestionTypeGrid:
		cells := make([]models.GridAnswer, 0, len(result.Grid))
		for _, cell := range result.Grid {
			cells = append(cells, models.GridAnswer{
				RowText:      cell.RowText,
				RowLabel:     cell.RowLabel,
				ColText:      cell.ColText,
				ColLabel:     cell.ColLabel,
				AnswerText:   cell.Text,
				AnswerNumber: cell.Number,
			})
		}
		if err := responseRepo.ReplaceGridAnswers(ctx, response.ID, cells); err != nil {
			return err
		}
	case models.QuestionTypeMapMultipoint, models.QuestionTypePennies:
		locations := make([]models.Location, 0, len(result.Points))
		for _, point := range result.Points {
			loc := models.Location{
				RespondantUUID: respondant.UUID,
				Lat:            point.Lat,
				Lng:            point.Lng,
			}
			for _, pa := range point.Answers {
				loc.Answers = append(loc.Answers, models.LocationAnswer{Answer: pa.Text, Label: pa.Label})
			}
			locations = append(locations, loc)
		}
		if err := responseRepo.ReplaceLocations(ctx, response.ID, locations); err != nil {
			return err
		}
	}

	// FilterBy işaretli soruların cevabı respondant'ın filtre alanına kopyalanır.
	if question.FilterBy && result.Display != nil {
		if err := respondantRepo.UpsertFilterField(ctx, respondant.UUID, question.Slug, *result.Display); err != nil {
			return err
		}
	}
	respondant.LastQuestion = question.Slug
	return nil
}

// UpdateResponseRaw ham cevabı günceller. Normalizasyon yalnızca oluşturma
// anında çalışır; sonraki ham veri düzenlemeleri türetilmiş kayıtlara
// dokunmaz.
func (s *ResponseService) UpdateResponseRaw(ctx context.Context, id uint, answerRaw string) error {
	response, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrResponseNotFound
		}
		return err
	}
	response.AnswerRaw = answerRaw
	return s.repo.Save(ctx, response)
}

// GetResponseByID cevabı çocuk kayıtlarıyla birlikte getirir.
func (s *ResponseService) GetResponseByID(ctx context.Context, id uint) (*models.Response, error) {
	response, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, err
	}
	return response, nil
}

var _ IResponseService = (*ResponseService)(nil)
