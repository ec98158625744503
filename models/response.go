package models

import (
	"time"

	"gorm.io/gorm"
)

// Response bir Respondant'ın tek bir soruya verdiği cevaptır. AnswerRaw
// client'ın gönderdiği dokunulmamış JSON'dur ve oluşturma anında bir kez
// set edilir; türetilmiş alanlar (Answer, AnswerNumber, AnswerDate) ve çocuk
// kayıtlar sadece oluşturma sırasında çalışan normalizasyonla doldurulur.
type Response struct {
	BaseModel
	QuestionID     uint       `gorm:"index;not null"`
	RespondantUUID string     `gorm:"type:varchar(36);index;not null"`
	AnswerRaw      string     `gorm:"type:text"`
	Answer         *string    `gorm:"type:text"` // İnsan okunur özet; parse gerektirmez
	AnswerNumber   *float64   `gorm:"type:numeric(10,2)"`
	AnswerDate     *time.Time `gorm:"index"`
	Ts             time.Time  // Client tarafında üretilen zaman damgası

	// GORM İlişkileri
	Question     Question      `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	MultiAnswers []MultiAnswer `gorm:"foreignKey:ResponseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GridAnswers  []GridAnswer  `gorm:"foreignKey:ResponseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Locations    []Location    `gorm:"foreignKey:ResponseID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// BeforeCreate boş Ts alanını sunucu saatiyle doldurur.
func (r *Response) BeforeCreate(tx *gorm.DB) error {
	if r.Ts.IsZero() {
		r.Ts = time.Now().UTC()
	}
	return r.BaseModel.BeforeCreate(tx)
}
