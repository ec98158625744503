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

// IExportRowRepository dışa aktarım önbelleği işlemleri için arayüz.
type IExportRowRepository interface {
	Create(ctx context.Context, row *models.ExportRow) error
	UpdateJSON(ctx context.Context, id uint, jsonData string) error
	FindByID(ctx context.Context, id uint) (*models.ExportRow, error)
}

// ExportRowRepository IExportRowRepository arayüzünü uygular.
type ExportRowRepository struct {
	db *gorm.DB
}

// NewExportRowRepository yeni bir ExportRowRepository örneği oluşturur.
func NewExportRowRepository() IExportRowRepository {
	return &ExportRowRepository{db: configs.GetDB()}
}

// NewExportRowRepositoryTx transaction'a bağlı ExportRowRepository oluşturur.
func NewExportRowRepositoryTx(tx *gorm.DB) IExportRowRepository {
	return &ExportRowRepository{db: tx}
}

func (r *ExportRowRepository) getDB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create boş bir dışa aktarım satırı oluşturur.
func (r *ExportRowRepository) Create(ctx context.Context, row *models.ExportRow) error {
	if row == nil {
		return errors.New("geçersiz dışa aktarım satırı")
	}
	return r.getDB(ctx).Create(row).Error
}

// UpdateJSON satırın içeriğini yeni serileştirilmiş eşlemeyle değiştirir.
func (r *ExportRowRepository) UpdateJSON(ctx context.Context, id uint, jsonData string) error {
	if id == 0 {
		return errors.New("geçersiz ExportRow ID")
	}
	result := r.getDB(ctx).Model(&models.ExportRow{}).Where("id = ?", id).Update("json_data", jsonData)
	if result.Error != nil {
		configslog.Log.Error("ExportRowRepository.UpdateJSON: DB error", zap.Uint("id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByID dışa aktarım satırını bulur.
func (r *ExportRowRepository) FindByID(ctx context.Context, id uint) (*models.ExportRow, error) {
	if id == 0 {
		return nil, errors.New("geçersiz ExportRow ID")
	}
	var row models.ExportRow
	err := r.getDB(ctx).First(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

var _ IExportRowRepository = (*ExportRowRepository)(nil)
