package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"anket.link/configs"
	"anket.link/configs/configslog"
	"anket.link/models"
	"anket.link/pkg/flatexport"
	"anket.link/pkg/queryparams"
	"anket.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RespondantServiceError özel servis hataları
type RespondantServiceError string

func (e RespondantServiceError) Error() string { return string(e) }

const (
	ErrRespondantNotFound       RespondantServiceError = "respondant bulunamadı"
	ErrRespondantCreationFailed RespondantServiceError = "respondant oluşturulamadı"
	ErrRespondantUpdateFailed   RespondantServiceError = "respondant güncellenemedi"
	ErrRspInvalidInput          RespondantServiceError = "geçersiz girdi verisi"
	ErrStatusAlreadySet         RespondantServiceError = "respondant statüsü bir kez set edilir, geri alınamaz"
	ErrInvalidStatus            RespondantServiceError = "geçersiz statü değeri"
	ErrInvalidReviewStatus      RespondantServiceError = "geçersiz gözden geçirme durumu"
	ErrSurveyNotFoundForRsp     RespondantServiceError = "respondant için anket bulunamadı"
)

// CreateRespondantInput yeni bir anket oturumu için servis girdisi.
type CreateRespondantInput struct {
	UUID         string // Boşsa üretilir; dış sistemden gelebilir
	SurveyID     uint
	ReturnURL    string
	SurveyorName string
	SurveySite   string
	Email        *string
	Ts           time.Time
	TestData     bool
}

// UpdateRespondantInput mevcut oturuma client'tan gelen güncelleme.
type UpdateRespondantInput struct {
	Complete     *bool
	Status       *models.RespondantStatus
	LastQuestion *string
	SurveySite   *string
	Email        *string
}

// IRespondantService respondant işlemleri için arayüz.
type IRespondantService interface {
	CreateRespondant(ctx context.Context, input CreateRespondantInput) (*models.Respondant, error)
	UpdateRespondant(ctx context.Context, uuid string, input UpdateRespondantInput) (*models.Respondant, error)
	SetReviewStatus(ctx context.Context, uuid string, status models.ReviewStatus, comment string) error
	GetRespondant(ctx context.Context, uuid string) (*models.Respondant, error)
	GetFlatExport(ctx context.Context, uuid string) (map[string]string, error)
	ListRespondants(ctx context.Context, surveyID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	FilterForReport(ctx context.Context, filter repositories.ReportFilter) ([]models.Respondant, error)
}

// RespondantService IRespondantService arayüzünü uygular.
type RespondantService struct {
	repo       repositories.IRespondantRepository
	surveyRepo repositories.ISurveyRepository
	db         *gorm.DB
}

// NewRespondantService yeni bir RespondantService örneği oluşturur.
func NewRespondantService() IRespondantService {
	return &RespondantService{
		repo:       repositories.NewRespondantRepository(),
		surveyRepo: repositories.NewSurveyRepository(),
		db:         configs.GetDB(),
	}
}

// CreateRespondant yeni bir oturum açar ve dışa aktarım satırını hazırlar.
func (s *RespondantService) CreateRespondant(ctx context.Context, input CreateRespondantInput) (*models.Respondant, error) {
	if input.SurveyID == 0 {
		return nil, fmt.Errorf("%w: anket ID zorunlu", ErrRspInvalidInput)
	}
	if _, err := s.surveyRepo.FindByID(ctx, input.SurveyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSurveyNotFoundForRsp
		}
		return nil, err
	}

	respondant := &models.Respondant{
		UUID:         input.UUID,
		SurveyID:     input.SurveyID,
		ReturnURL:    input.ReturnURL,
		SurveyorName: input.SurveyorName,
		SurveySite:   input.SurveySite,
		Email:        input.Email,
		Ts:           input.Ts,
		TestData:     input.TestData,
		ReviewStatus: models.ReviewStatusNeeded,
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewRespondantRepositoryTx(tx).Create(ctx, respondant); err != nil {
			return fmt.Errorf("%w: %v", ErrRespondantCreationFailed, err)
		}
		return refreshRespondantTx(ctx, tx, respondant)
	})
	if txErr != nil {
		configslog.Log.Error("CreateRespondant transaction failed",
			zap.Uint("surveyID", input.SurveyID), zap.Error(txErr))
		return nil, txErr
	}

	configslog.SLog.Infof("Respondant oluşturuldu: %s (Anket: %d)", respondant.UUID, respondant.SurveyID)
	return respondant, nil
}

// UpdateRespondant client'tan gelen güncellemeyi uygular. Statü iki değerden
// birine bir kez geçer ve geri alınmaz; statü yazmak gözden geçirme eksenine
// asla dokunmaz.
func (s *RespondantService) UpdateRespondant(ctx context.Context, uuid string, input UpdateRespondantInput) (*models.Respondant, error) {
	if uuid == "" {
		return nil, fmt.Errorf("%w: UUID zorunlu", ErrRspInvalidInput)
	}
	if input.Status != nil &&
		*input.Status != models.RespondantStatusComplete &&
		*input.Status != models.RespondantStatusTerminate {
		return nil, ErrInvalidStatus
	}

	var updated *models.Respondant
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewRespondantRepositoryTx(tx)
		respondant, err := repo.FindByUUIDForUpdate(ctx, uuid)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRespondantNotFound
			}
			return err
		}

		if input.Status != nil {
			if respondant.Status != "" && respondant.Status != *input.Status {
				return ErrStatusAlreadySet
			}
			respondant.Status = *input.Status
		}
		if input.Complete != nil {
			respondant.Complete = *input.Complete
		}
		if input.LastQuestion != nil {
			respondant.LastQuestion = *input.LastQuestion
		}
		if input.SurveySite != nil {
			respondant.SurveySite = *input.SurveySite
		}
		if input.Email != nil {
			respondant.Email = input.Email
		}

		if err := refreshRespondantTx(ctx, tx, respondant); err != nil {
			return fmt.Errorf("%w: %v", ErrRespondantUpdateFailed, err)
		}
		updated = respondant
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("UpdateRespondant transaction failed", zap.String("uuid", uuid), zap.Error(txErr))
		return nil, txErr
	}
	return updated, nil
}

// SetReviewStatus gözden geçirme durumunu değiştirir. needs review, flagged
// ve accepted arasında serbest geçiş vardır; respondant statüsü etkilenmez.
func (s *RespondantService) SetReviewStatus(ctx context.Context, uuid string, status models.ReviewStatus, comment string) error {
	switch status {
	case models.ReviewStatusNeeded, models.ReviewStatusFlagged, models.ReviewStatusAccepted:
	default:
		return ErrInvalidReviewStatus
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewRespondantRepositoryTx(tx)
		respondant, err := repo.FindByUUIDForUpdate(ctx, uuid)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrRespondantNotFound
			}
			return err
		}
		respondant.ReviewStatus = status
		if comment != "" {
			respondant.ReviewComment = comment
		}
		return refreshRespondantTx(ctx, tx, respondant)
	})
	if txErr != nil {
		configslog.Log.Error("SetReviewStatus transaction failed",
			zap.String("uuid", uuid), zap.String("status", string(status)), zap.Error(txErr))
		return txErr
	}
	configslog.SLog.Infof("Respondant %s gözden geçirme durumu: %s", uuid, status)
	return nil
}

// GetRespondant oturumu ilişkileriyle birlikte getirir.
func (s *RespondantService) GetRespondant(ctx context.Context, uuid string) (*models.Respondant, error) {
	respondant, err := s.repo.FindByUUID(ctx, uuid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRespondantNotFound
		}
		return nil, err
	}
	return respondant, nil
}

// GetFlatExport önbellekteki düz eşlemeyi döndürür. Önbellek her kayıtta
// güncellendiği için genelde okunan değer günceldir; satır yoksa eşleme
// anlık üretilir.
func (s *RespondantService) GetFlatExport(ctx context.Context, uuid string) (map[string]string, error) {
	respondant, err := s.GetRespondant(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if respondant.ExportRow != nil && respondant.ExportRow.JSONData != "" {
		var flat map[string]string
		if err := json.Unmarshal([]byte(respondant.ExportRow.JSONData), &flat); err == nil {
			return flat, nil
		}
		configslog.Log.Warn("ExportRow içeriği çözülemedi, eşleme yeniden üretiliyor",
			zap.String("uuid", uuid))
	}
	return flatexport.FlatDict(respondant)
}

// ListRespondants anketin oturumlarını sayfalayarak döndürür.
func (s *RespondantService) ListRespondants(ctx context.Context, surveyID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if surveyID == 0 {
		return nil, fmt.Errorf("%w: anket ID zorunlu", ErrRspInvalidInput)
	}
	params.Validate()

	respondants, totalCount, err := s.repo.FindAllPaginated(ctx, surveyID, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: respondants,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
			TotalCount:  totalCount,
		},
	}, nil
}

// FilterForReport rapor ölçütlerine uyan oturumları döndürür.
func (s *RespondantService) FilterForReport(ctx context.Context, filter repositories.ReportFilter) ([]models.Respondant, error) {
	return s.repo.FilterForReport(ctx, filter)
}

// refreshRespondantTx her respondant kaydında çalışan boru hattıdır ve sırası
// sabittir: geo-nokta sayacı yeniden sayılır, dışa aktarım satırı yoksa
// atanır, respondant yazılır, son olarak satır içeriği güncel cevaplardan
// yeniden üretilir. Çağıranın transaction'ı içinde koşar; dışarıdan bakan
// için respondant yazısıyla atomiktir.
func refreshRespondantTx(ctx context.Context, tx *gorm.DB, respondant *models.Respondant) error {
	repo := repositories.NewRespondantRepositoryTx(tx)
	exportRepo := repositories.NewExportRowRepositoryTx(tx)
	responseRepo := repositories.NewResponseRepositoryTx(tx)

	// 1. Locations sayacı çocuk kayıtlarla eşitlenir.
	count, err := repo.CountLocations(ctx, respondant.UUID)
	if err != nil {
		return err
	}
	locations := int(count)
	respondant.Locations = &locations

	// 2. Dışa aktarım satırı yoksa atanır.
	if respondant.ExportRowID == nil {
		row := &models.ExportRow{}
		if err := exportRepo.Create(ctx, row); err != nil {
			return err
		}
		respondant.ExportRowID = &row.ID
		respondant.ExportRow = row
	}

	// 3. Respondant yazılır.
	if err := repo.Save(ctx, respondant); err != nil {
		return err
	}

	// 4. Satır içeriği güncel cevaplardan yeniden üretilir.
	responses, err := responseRepo.FindByRespondant(ctx, respondant.UUID)
	if err != nil {
		return err
	}
	respondant.Responses = responses

	flat, err := flatexport.FlatDict(respondant)
	if err != nil {
		return err
	}
	data, err := json.Marshal(flat)
	if err != nil {
		return err
	}
	return exportRepo.UpdateJSON(ctx, *respondant.ExportRowID, string(data))
}

var _ IRespondantService = (*RespondantService)(nil)
