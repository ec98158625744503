package models

// GridAnswer grid tipli bir cevabın tek hücresini tutar: (satır × sütun).
// Sayısal sütunlar hem AnswerText hem AnswerNumber doldurur; multi-select
// sütunlar seçilen değer başına bir kayda açılır.
type GridAnswer struct {
	BaseModel
	ResponseID   uint     `gorm:"index;not null"`
	RowText      string   `gorm:"type:text"` // Kullanıcıya görünen satır etiketi (questions.rows)
	RowLabel     string   `gorm:"type:text"` // Satır slug'ı
	ColText      string   `gorm:"type:text"` // Kullanıcıya görünen sütun etiketi
	ColLabel     string   `gorm:"type:text"` // Sütun slug'ı
	AnswerText   string   `gorm:"type:text"`
	AnswerNumber *float64 `gorm:"type:numeric(10,2)"`
}
