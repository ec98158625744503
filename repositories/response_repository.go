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

// IResponseRepository cevap veritabanı işlemleri için arayüz. Replace*
// metodları çocuk kayıt setini açıkça değiştirir: mevcut set silinir, yenisi
// yazılır. Artımlı diff yapılmaz; yeniden çalıştırma güvenliği bu değişimin
// bütünlüğünden gelir.
type IResponseRepository interface {
	Create(ctx context.Context, response *models.Response) error
	Save(ctx context.Context, response *models.Response) error
	FindByID(ctx context.Context, id uint) (*models.Response, error)
	FindByRespondant(ctx context.Context, respondantUUID string) ([]models.Response, error)
	ReplaceMultiAnswers(ctx context.Context, responseID uint, answers []models.MultiAnswer) error
	ReplaceGridAnswers(ctx context.Context, responseID uint, answers []models.GridAnswer) error
	ReplaceLocations(ctx context.Context, responseID uint, locations []models.Location) error
}

// ResponseRepository IResponseRepository arayüzünü uygular.
type ResponseRepository struct {
	db *gorm.DB
}

// NewResponseRepository yeni bir ResponseRepository örneği oluşturur.
func NewResponseRepository() IResponseRepository {
	return &ResponseRepository{db: configs.GetDB()}
}

// NewResponseRepositoryTx transaction'a bağlı ResponseRepository oluşturur.
func NewResponseRepositoryTx(tx *gorm.DB) IResponseRepository {
	return &ResponseRepository{db: tx}
}

func (r *ResponseRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create yeni bir cevap kaydı oluşturur.
func (r *ResponseRepository) Create(ctx context.Context, response *models.Response) error {
	if response == nil || response.QuestionID == 0 || response.RespondantUUID == "" {
		return errors.New("sorusuz veya respondant'sız cevap oluşturulamaz")
	}
	return r.getDB(ctx).Create(response).Error
}

// Save mevcut cevabı günceller. İlişkiler yazılmaz; çocuk kayıt setlerini
// Replace* metodları yönetir.
func (r *ResponseRepository) Save(ctx context.Context, response *models.Response) error {
	if response == nil || response.ID == 0 {
		return errors.New("güncellenecek cevap geçerli değil")
	}
	return r.getDB(ctx).Omit(clause.Associations).Save(response).Error
}

// FindByID cevabı sorusu ve çocuk kayıtlarıyla birlikte bulur.
func (r *ResponseRepository) FindByID(ctx context.Context, id uint) (*models.Response, error) {
	if id == 0 {
		return nil, errors.New("geçersiz Response ID")
	}
	var response models.Response
	err := r.getDB(ctx).
		Preload("Question").
		Preload("Question.GridCols").
		Preload("MultiAnswers").
		Preload("GridAnswers").
		Preload("Locations").
		Preload("Locations.Answers").
		First(&response, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ResponseRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &response, nil
}

// FindByRespondant respondant'ın tüm cevaplarını sorularıyla döndürür.
func (r *ResponseRepository) FindByRespondant(ctx context.Context, respondantUUID string) ([]models.Response, error) {
	if respondantUUID == "" {
		return nil, errors.New("geçersiz Respondant UUID")
	}
	var responses []models.Response
	err := r.getDB(ctx).
		Preload("Question").
		Preload("GridAnswers").
		Where("respondant_uuid = ?", respondantUUID).
		Order("id").
		Find(&responses).Error
	if err != nil {
		configslog.Log.Error("ResponseRepository.FindByRespondant: DB error",
			zap.String("respondantUUID", respondantUUID), zap.Error(err))
		return nil, err
	}
	return responses, nil
}

// ReplaceMultiAnswers cevabın multi-select çocuk setini yenisiyle değiştirir.
func (r *ResponseRepository) ReplaceMultiAnswers(ctx context.Context, responseID uint, answers []models.MultiAnswer) error {
	if responseID == 0 {
		return errors.New("geçersiz Response ID")
	}
	db := r.getDB(ctx)
	if err := db.Unscoped().Where("response_id = ?", responseID).Delete(&models.MultiAnswer{}).Error; err != nil {
		return err
	}
	for i := range answers {
		answers[i].ID = 0
		answers[i].ResponseID = responseID
	}
	if len(answers) == 0 {
		return nil
	}
	return db.Create(&answers).Error
}

// ReplaceGridAnswers cevabın grid hücre setini yenisiyle değiştirir.
func (r *ResponseRepository) ReplaceGridAnswers(ctx context.Context, responseID uint, answers []models.GridAnswer) error {
	if responseID == 0 {
		return errors.New("geçersiz Response ID")
	}
	db := r.getDB(ctx)
	if err := db.Unscoped().Where("response_id = ?", responseID).Delete(&models.GridAnswer{}).Error; err != nil {
		return err
	}
	for i := range answers {
		answers[i].ID = 0
		answers[i].ResponseID = responseID
	}
	if len(answers) == 0 {
		return nil
	}
	return db.Create(&answers).Error
}

// ReplaceLocations cevabın nokta setini (alt cevaplarıyla birlikte)
// yenisiyle değiştirir.
func (r *ResponseRepository) ReplaceLocations(ctx context.Context, responseID uint, locations []models.Location) error {
	if responseID == 0 {
		return errors.New("geçersiz Response ID")
	}
	db := r.getDB(ctx)

	// Önce alt cevaplar, sonra noktalar silinir.
	var existingIDs []uint
	if err := db.Model(&models.Location{}).Where("response_id = ?", responseID).Pluck("id", &existingIDs).Error; err != nil {
		return err
	}
	if len(existingIDs) > 0 {
		if err := db.Unscoped().Where("location_id IN ?", existingIDs).Delete(&models.LocationAnswer{}).Error; err != nil {
			return err
		}
		if err := db.Unscoped().Where("response_id = ?", responseID).Delete(&models.Location{}).Error; err != nil {
			return err
		}
	}

	for i := range locations {
		locations[i].ID = 0
		locations[i].ResponseID = responseID
		for j := range locations[i].Answers {
			locations[i].Answers[j].ID = 0
		}
	}
	if len(locations) == 0 {
		return nil
	}
	return db.Create(&locations).Error
}

var _ IResponseRepository = (*ResponseRepository)(nil)
