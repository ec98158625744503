package repositories

import (
	"context"
	"errors"

	"anket.link/configs"
	"anket.link/configs/configslog"
	"anket.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ISurveyRepository anket veritabanı işlemleri için arayüz.
type ISurveyRepository interface {
	Create(ctx context.Context, survey *models.Survey) error
	FindByID(ctx context.Context, id uint) (*models.Survey, error)
	FindBySlug(ctx context.Context, slug string) (*models.Survey, error)
	CountAll(ctx context.Context) (int64, error)
}

// SurveyRepository ISurveyRepository arayüzünü uygular.
type SurveyRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Survey]
}

// NewSurveyRepository yeni bir SurveyRepository örneği oluşturur.
func NewSurveyRepository() ISurveyRepository {
	db := configs.GetDB()
	return &SurveyRepository{db: db, base: NewBaseRepository[models.Survey](db)}
}

// NewSurveyRepositoryTx transaction'a bağlı SurveyRepository oluşturur.
func NewSurveyRepositoryTx(tx *gorm.DB) ISurveyRepository {
	return &SurveyRepository{db: tx, base: NewBaseRepository[models.Survey](tx)}
}

func (r *SurveyRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create yeni bir anketi sorularıyla birlikte oluşturur.
func (r *SurveyRepository) Create(ctx context.Context, survey *models.Survey) error {
	if survey == nil || survey.Slug == "" {
		return errors.New("slug'sız anket oluşturulamaz")
	}
	return r.getDB(ctx).Create(survey).Error
}

// FindByID anketi ID ile, soruları sıralı olarak yükleyerek bulur.
func (r *SurveyRepository) FindByID(ctx context.Context, id uint) (*models.Survey, error) {
	if id == 0 {
		return nil, errors.New("geçersiz Survey ID")
	}
	var survey models.Survey
	err := r.getDB(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
		}).
		Preload("Questions.GridCols").
		First(&survey, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("SurveyRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &survey, nil
}

// FindBySlug anketi slug ile bulur.
func (r *SurveyRepository) FindBySlug(ctx context.Context, slug string) (*models.Survey, error) {
	if slug == "" {
		return nil, errors.New("geçersiz anket slug")
	}
	var survey models.Survey
	err := r.getDB(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
		}).
		Preload("Questions.GridCols").
		Where("slug = ?", slug).First(&survey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("SurveyRepository.FindBySlug: DB error", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &survey, nil
}

// CountAll tüm anketlerin sayısını döndürür.
func (r *SurveyRepository) CountAll(ctx context.Context) (int64, error) {
	return r.base.Count(ctx)
}

var _ ISurveyRepository = (*SurveyRepository)(nil)
