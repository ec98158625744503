package models

// MultiAnswer multi-select tipli bir cevabın tek bir seçimini tutar.
// Normalizasyon her geçişte tüm seti siler ve yeniden oluşturur.
type MultiAnswer struct {
	BaseModel
	ResponseID  uint   `gorm:"index;not null"`
	AnswerText  string `gorm:"type:text;not null"`
	AnswerLabel string `gorm:"type:text"`
}
