package models

// Survey bir anket tanımının ana kaydıdır. Sorular Question tablosunda
// SurveyID ile bu kayda bağlanır.
type Survey struct {
	BaseModel
	Name    string `gorm:"type:varchar(254);not null"`
	Slug    string `gorm:"type:varchar(254);uniqueIndex;not null"`
	States  string `gorm:"type:varchar(200)"` // Anketin geçerli olduğu bölgeler (virgülle ayrık)
	Anon    bool   `gorm:"default:true"`
	Offline bool   `gorm:"default:false"`

	// GORM İlişkileri
	Questions []Question `gorm:"foreignKey:SurveyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
