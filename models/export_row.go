package models

// ExportRow bir Respondant'ın düzleştirilmiş alan→değer eşlemesinin
// serileştirilmiş halini tutan rapor önbelleğidir. İçerik opak JSON'dur;
// Respondant veya cevapları her değiştiğinde yeniden üretilir.
type ExportRow struct {
	BaseModel
	JSONData string `gorm:"type:text"`
}
