package models

// Location map-multipoint ve pennies tipli cevapların tek bir coğrafi
// noktasını tutar. Respondant'ın Locations sayacı bu kayıtlardan türetilir.
type Location struct {
	BaseModel
	ResponseID     uint    `gorm:"index;not null"`
	RespondantUUID string  `gorm:"type:varchar(36);index"`
	Lat            float64 `gorm:"type:numeric(10,7);not null"`
	Lng            float64 `gorm:"type:numeric(10,7);not null"`

	// GORM İlişkileri
	Answers []LocationAnswer `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// LocationAnswer bir noktaya iliştirilmiş alt cevaptır.
type LocationAnswer struct {
	BaseModel
	LocationID uint   `gorm:"index;not null"`
	Answer     string `gorm:"type:text"`
	Label      string `gorm:"type:text"`
}
