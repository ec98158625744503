package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RespondantStatus anket oturumunun sonucunu tanımlar. Client tarafından
// bir kez set edilir; bu çekirdek set edilmiş bir statüyü geri almaz.
type RespondantStatus string

const (
	RespondantStatusComplete  RespondantStatus = "complete"
	RespondantStatusTerminate RespondantStatus = "terminate"
)

// ReviewStatus gözden geçirme durumunu tanımlar. Statüden bağımsız bir eksendir;
// flagged/accepted/needs review arasında serbest geçiş vardır.
type ReviewStatus string

const (
	ReviewStatusNeeded   ReviewStatus = "needs review"
	ReviewStatusFlagged  ReviewStatus = "flagged"
	ReviewStatusAccepted ReviewStatus = "accepted"
)

// Display gözden geçirme durumunun raporlarda görünen halini döndürür.
func (s ReviewStatus) Display() string {
	switch s {
	case ReviewStatusNeeded:
		return "Needs Review"
	case ReviewStatusFlagged:
		return "Flagged"
	case ReviewStatusAccepted:
		return "Accepted"
	}
	return string(s)
}

// Respondant bir anket doldurma oturumudur. Cevapları (Response) ve
// raporlama için denormalize edilmiş ExportRow kaydını sahiplenir.
// Birincil anahtar dış sistemden gelebilen bir UUID'dir.
type Respondant struct {
	UUID          string           `gorm:"type:varchar(36);primarykey"`
	SurveyID      uint             `gorm:"index;not null"`
	ReturnURL     string           `gorm:"type:varchar(500)"`
	Complete      bool             `gorm:"default:false;index"`
	Status        RespondantStatus `gorm:"type:varchar(20);index"` // Boş = henüz sonuçlanmadı
	ReviewStatus  ReviewStatus     `gorm:"type:varchar(20);not null;default:'needs review';index"`
	ReviewComment string           `gorm:"type:text"`
	LastQuestion  string           `gorm:"type:varchar(240)"` // Son cevaplanan sorunun slug'ı
	SurveyorName  string           `gorm:"type:varchar(240)"`
	SurveySite    string           `gorm:"type:varchar(240);index"` // Raporlamada pazar/bölge filtresi
	Email         *string          `gorm:"type:varchar(254)"`
	Ts            time.Time        `gorm:"index"` // Client tarafında üretilen oturum zamanı
	Locations     *int             // Geo-nokta çocuk kayıt sayısı; her kayıtta yeniden sayılır
	TestData      bool             `gorm:"default:false"`
	ExportRowID   *uint            `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// GORM İlişkileri
	Survey       Survey            `gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	ExportRow    *ExportRow        `gorm:"foreignKey:ExportRowID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Responses    []Response        `gorm:"foreignKey:RespondantUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FilterFields []RespondantField `gorm:"foreignKey:RespondantUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// BeforeCreate UUID üretir ve PK içinde ":" karakterine izin vermez.
func (r *Respondant) BeforeCreate(tx *gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}
	return r.BeforeSave(tx)
}

// BeforeSave dış sistemden gelen UUID'lerdeki ":" karakterini "_" ile değiştirir
// ve boş Ts alanını doldurur.
func (r *Respondant) BeforeSave(tx *gorm.DB) error {
	if strings.Contains(r.UUID, ":") {
		r.UUID = strings.ReplaceAll(r.UUID, ":", "_")
	}
	if r.Ts.IsZero() {
		r.Ts = time.Now().UTC()
	}
	return nil
}

// RespondantField soru slug'ı → cevap değeri eşlemesini tutan genişletilebilir
// alan kabıdır. FilterBy işaretli soruların cevapları normalizasyon sırasında
// buraya kopyalanır; raporlama bu değerlerle filtreler.
type RespondantField struct {
	BaseModel
	RespondantUUID string `gorm:"type:varchar(36);index:idx_respondant_field_slug,unique;not null"`
	Slug           string `gorm:"type:varchar(64);index:idx_respondant_field_slug,unique;not null"`
	Value          string `gorm:"type:text"`
}
