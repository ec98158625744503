package repositories

import (
	"context"
	"errors"
	"time"

	"anket.link/configs"
	"anket.link/configs/configslog"
	"anket.link/models"
	"anket.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportFilter raporlama için respondant seçim ölçütleri.
type ReportFilter struct {
	SurveySlug   string
	StartDate    *time.Time // Ts >= StartDate
	EndDate      *time.Time // Ts < EndDate
	Market       string     // survey_site eşleşmesi
	SurveyorName string
	ReviewStatus models.ReviewStatus
}

// SurveyStats bir anketin özet sayaçları.
type SurveyStats struct {
	Responses      int64      `json:"responses"`
	Completes      int64      `json:"completes"`
	ReviewsNeeded  int64      `json:"reviews_needed"`
	Flagged        int64      `json:"flagged"`
	ActivityPoints int64      `json:"activity_points"`
	Today          int64      `json:"today"`
	DateStart      *time.Time `json:"date_start"`
	DateEnd        *time.Time `json:"date_end"`
}

// IRespondantRepository respondant veritabanı işlemleri için arayüz.
type IRespondantRepository interface {
	Create(ctx context.Context, respondant *models.Respondant) error
	Save(ctx context.Context, respondant *models.Respondant) error
	FindByUUID(ctx context.Context, uuid string) (*models.Respondant, error)
	FindByUUIDForUpdate(ctx context.Context, uuid string) (*models.Respondant, error)
	FindAllPaginated(ctx context.Context, surveyID uint, params queryparams.ListParams) ([]models.Respondant, int64, error)
	FilterForReport(ctx context.Context, filter ReportFilter) ([]models.Respondant, error)
	CountLocations(ctx context.Context, uuid string) (int64, error)
	UpsertFilterField(ctx context.Context, uuid, slug, value string) error
	Stats(ctx context.Context, surveyID uint) (*SurveyStats, error)
}

// RespondantRepository IRespondantRepository arayüzünü uygular.
type RespondantRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Respondant]
}

func newRespondantRepository(db *gorm.DB) *RespondantRepository {
	base := NewBaseRepository[models.Respondant](db)
	base.SetAllowedSortColumns([]string{"ts", "created_at", "review_status"})
	return &RespondantRepository{db: db, base: base}
}

// NewRespondantRepository yeni bir RespondantRepository örneği oluşturur.
func NewRespondantRepository() IRespondantRepository {
	return newRespondantRepository(configs.GetDB())
}

// NewRespondantRepositoryTx transaction'a bağlı RespondantRepository oluşturur.
func NewRespondantRepositoryTx(tx *gorm.DB) IRespondantRepository {
	return newRespondantRepository(tx)
}

func (r *RespondantRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create yeni bir respondant oluşturur.
func (r *RespondantRepository) Create(ctx context.Context, respondant *models.Respondant) error {
	if respondant == nil || respondant.SurveyID == 0 {
		return errors.New("anketsiz respondant oluşturulamaz")
	}
	return r.getDB(ctx).Create(respondant).Error
}

// Save mevcut respondant'ı günceller. İlişkiler yazılmaz; çocuk kayıtları
// kendi repository'leri yönetir.
func (r *RespondantRepository) Save(ctx context.Context, respondant *models.Respondant) error {
	if respondant == nil || respondant.UUID == "" {
		return errors.New("güncellenecek respondant geçerli değil")
	}
	return r.getDB(ctx).Omit(clause.Associations).Save(respondant).Error
}

// FindByUUID respondant'ı düz dışa aktarım için gereken ilişkileriyle yükler:
// cevaplar (soru sırasında), soruları ve grid hücreleri.
func (r *RespondantRepository) FindByUUID(ctx context.Context, uuid string) (*models.Respondant, error) {
	return r.findByUUID(r.getDB(ctx), uuid)
}

// FindByUUIDForUpdate respondant'ı satır kilidiyle yükler. Transaction içinde
// kullanılmalıdır. SQLite FOR UPDATE desteklemez; kilit yalnızca destekleyen
// sürücülerde eklenir.
func (r *RespondantRepository) FindByUUIDForUpdate(ctx context.Context, uuid string) (*models.Respondant, error) {
	db := r.getDB(ctx)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.findByUUID(db, uuid)
}

func (r *RespondantRepository) findByUUID(db *gorm.DB, uuid string) (*models.Respondant, error) {
	if uuid == "" {
		return nil, errors.New("geçersiz Respondant UUID")
	}
	var respondant models.Respondant
	err := db.
		Preload("Responses").
		Preload("Responses.Question").
		Preload("Responses.GridAnswers").
		Preload("FilterFields").
		Preload("ExportRow").
		Where("uuid = ?", uuid).First(&respondant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("RespondantRepository.FindByUUID: DB error", zap.String("uuid", uuid), zap.Error(err))
		return nil, err
	}
	return &respondant, nil
}

// FindAllPaginated bir anketin respondant'larını sayfalayarak döndürür.
func (r *RespondantRepository) FindAllPaginated(ctx context.Context, surveyID uint, params queryparams.ListParams) ([]models.Respondant, int64, error) {
	if surveyID == 0 {
		return nil, 0, errors.New("geçersiz Survey ID")
	}
	var respondants []models.Respondant
	var totalCount int64

	query := r.getDB(ctx).Model(&models.Respondant{}).Where("survey_id = ?", surveyID)
	if params.Status != "" {
		query = query.Where("review_status = ?", params.Status)
	}
	if params.Name != "" {
		query = query.Where("surveyor_name LIKE ?", "%"+params.Name+"%")
	}
	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("RespondantRepository.Count: DB error", zap.Uint("surveyID", surveyID), zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return respondants, 0, nil
	}

	orderColumn := params.SortBy
	if !r.base.AllowedSortColumn(orderColumn) {
		orderColumn = "ts"
	}

	err := query.
		Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&respondants).Error
	if err != nil {
		configslog.Log.Error("RespondantRepository.Find: DB error", zap.Uint("surveyID", surveyID), zap.Error(err))
		return nil, totalCount, err
	}
	return respondants, totalCount, nil
}

// FilterForReport rapor ölçütlerine uyan respondant'ları döndürür.
func (r *RespondantRepository) FilterForReport(ctx context.Context, filter ReportFilter) ([]models.Respondant, error) {
	if filter.SurveySlug == "" {
		return nil, errors.New("rapor filtresi için anket slug zorunlu")
	}
	query := r.getDB(ctx).Model(&models.Respondant{}).
		Joins("JOIN surveys ON surveys.id = respondants.survey_id").
		Where("surveys.slug = ?", filter.SurveySlug)

	if filter.StartDate != nil {
		query = query.Where("respondants.ts >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("respondants.ts < ?", *filter.EndDate)
	}
	if filter.Market != "" {
		query = query.Where("respondants.survey_site = ?", filter.Market)
	}
	if filter.SurveyorName != "" {
		query = query.Where("respondants.surveyor_name = ?", filter.SurveyorName)
	}
	if filter.ReviewStatus != "" {
		query = query.Where("respondants.review_status = ?", filter.ReviewStatus)
	}

	var respondants []models.Respondant
	if err := query.Preload("ExportRow").Order("respondants.ts").Find(&respondants).Error; err != nil {
		configslog.Log.Error("RespondantRepository.FilterForReport: DB error",
			zap.String("surveySlug", filter.SurveySlug), zap.Error(err))
		return nil, err
	}
	return respondants, nil
}

// CountLocations respondant'a ait geo-nokta çocuk kayıtlarını sayar.
// Respondant.Locations her kayıtta bu değerle eşitlenir.
func (r *RespondantRepository) CountLocations(ctx context.Context, uuid string) (int64, error) {
	if uuid == "" {
		return 0, errors.New("geçersiz Respondant UUID")
	}
	var count int64
	err := r.getDB(ctx).Model(&models.Location{}).
		Where("respondant_uuid = ?", uuid).Count(&count).Error
	return count, err
}

// UpsertFilterField respondant'ın slug→değer alanını oluşturur veya günceller.
func (r *RespondantRepository) UpsertFilterField(ctx context.Context, uuid, slug, value string) error {
	if uuid == "" || slug == "" {
		return errors.New("geçersiz filtre alanı anahtarı")
	}
	field := models.RespondantField{RespondantUUID: uuid, Slug: slug}
	return r.getDB(ctx).
		Where(models.RespondantField{RespondantUUID: uuid, Slug: slug}).
		Assign(models.RespondantField{Value: value}).
		FirstOrCreate(&field).Error
}

// Stats anketin özet sayaçlarını tek seferde toplar.
func (r *RespondantRepository) Stats(ctx context.Context, surveyID uint) (*SurveyStats, error) {
	if surveyID == 0 {
		return nil, errors.New("geçersiz Survey ID")
	}
	db := r.getDB(ctx)
	stats := &SurveyStats{}

	base := func() *gorm.DB {
		return db.Model(&models.Respondant{}).Where("survey_id = ?", surveyID)
	}
	if err := base().Count(&stats.Responses).Error; err != nil {
		return nil, err
	}
	if err := base().Where("complete = ?", true).Count(&stats.Completes).Error; err != nil {
		return nil, err
	}
	if err := base().Where("review_status = ?", models.ReviewStatusNeeded).Count(&stats.ReviewsNeeded).Error; err != nil {
		return nil, err
	}
	if err := base().Where("review_status = ?", models.ReviewStatusFlagged).Count(&stats.Flagged).Error; err != nil {
		return nil, err
	}

	// Tamamlanmış oturumların geo-nokta sayısı.
	err := db.Model(&models.Location{}).
		Joins("JOIN respondants ON respondants.uuid = locations.respondant_uuid").
		Where("respondants.survey_id = ? AND respondants.complete = ? AND respondants.deleted_at IS NULL", surveyID, true).
		Count(&stats.ActivityPoints).Error
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	tomorrow := today.Add(24 * time.Hour)
	if err := base().Where("ts >= ? AND ts < ?", today, tomorrow).Count(&stats.Today).Error; err != nil {
		return nil, err
	}

	// MIN/MAX toplamasında sürücü sütun tipini bilemez; sınırlar ts
	// sütunundan sıralı okunur.
	if stats.Responses > 0 {
		var lowest, highest models.Respondant
		if err := base().Select("ts").Order("ts").Take(&lowest).Error; err != nil {
			return nil, err
		}
		if err := base().Select("ts").Order("ts DESC").Take(&highest).Error; err != nil {
			return nil, err
		}
		stats.DateStart = &lowest.Ts
		stats.DateEnd = &highest.Ts
	}

	return stats, nil
}

var _ IRespondantRepository = (*RespondantRepository)(nil)
