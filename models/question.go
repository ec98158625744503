package models

import "strings"

// QuestionType soru tipini tanımlar. Normalizasyon dalı bu etikete göre seçilir;
// cevap girildikten sonra değiştirilmesi türetilmiş kayıtları sahipsiz bırakır.
type QuestionType string

const (
	QuestionTypeInfo             QuestionType = "info"
	QuestionTypeDatePicker       QuestionType = "datepicker"
	QuestionTypeDateTimePicker   QuestionType = "datetimepicker"
	QuestionTypeTimePicker       QuestionType = "timepicker"
	QuestionTypeGrid             QuestionType = "grid"
	QuestionTypeCurrency         QuestionType = "currency"
	QuestionTypePennies          QuestionType = "pennies"
	QuestionTypeText             QuestionType = "text"
	QuestionTypeTextArea         QuestionType = "textarea"
	QuestionTypeSingleSelect     QuestionType = "single-select"
	QuestionTypeMultiSelect      QuestionType = "multi-select"
	QuestionTypeLocation         QuestionType = "location"
	QuestionTypeInteger          QuestionType = "integer"
	QuestionTypeNumber           QuestionType = "number"
	QuestionTypeAutoSingleSelect QuestionType = "auto-single-select"
	QuestionTypeMapMultipoint    QuestionType = "map-multipoint"
	QuestionTypeYesNo            QuestionType = "yes-no"
)

// Question bir anket sorusunun tanımıdır.
type Question struct {
	BaseModel
	SurveyID uint         `gorm:"index:idx_questions_survey_slug,unique;not null"`
	Title    string       `gorm:"type:text;not null"`
	Label    string       `gorm:"type:varchar(254);not null"` // Başlığın kısa hali; raporlarda sütun adı olarak kullanılır
	Slug     string       `gorm:"type:varchar(64);index:idx_questions_survey_slug,unique;not null"`
	Type     QuestionType `gorm:"type:varchar(20);not null;default:'text'"`
	Order    int          `gorm:"default:0"` // Sorunun ankette görünme sırası

	// Satır/sütun etiketleri; sadece grid ve çok-noktalı tipler kullanır.
	// Satır başına bir etiket (newline ile ayrık).
	Rows string `gorm:"type:text"`
	Cols string `gorm:"type:text"`

	// Sayısal sınırlar (type=integer için)
	IntegerMin *int
	IntegerMax *int

	// Harita soruları için başlangıç görünümü
	Zoom    *int
	MinZoom *int     `gorm:"default:10"`
	Lat     *float64 `gorm:"type:numeric(10,7)"`
	Lng     *float64 `gorm:"type:numeric(10,7)"`

	TermCondition   string `gorm:"type:varchar(254)"` // Sonlandırma koşulu; <, > veya = ile başlar
	RandomizeGroups bool   `gorm:"default:false"`
	AllowOther      bool   `gorm:"default:false"`
	Required        bool   `gorm:"default:true"`

	// Raporlama/dashboard bayrakları
	FilterBy   bool   `gorm:"default:false"` // Cevabı Respondant filtre alanı olarak kopyalanır
	Visualize  bool   `gorm:"default:false"`
	ReportType string `gorm:"type:varchar(20)"`

	// GORM İlişkileri
	GridCols []QuestionOption `gorm:"many2many:question_grid_cols;"`
}

// QuestionOption bir grid sorusunun sütun tanımıdır. Her sütunun kendi tipi vardır.
type QuestionOption struct {
	BaseModel
	Text     string       `gorm:"type:varchar(254);not null"`
	Label    string       `gorm:"type:varchar(64);not null"`
	Type     QuestionType `gorm:"type:varchar(20);not null;default:'integer'"`
	Rows     string       `gorm:"type:text"` // multi-select sütunların seçenekleri
	Required bool         `gorm:"default:true"`
	Order    *int
	Min      *int
	Max      *int
}

// RowLines Rows alanını satır etiketlerine böler. Boş satırlar atlanır.
func (q *Question) RowLines() []string {
	var lines []string
	for _, line := range strings.Split(q.Rows, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SlugifyRow satır etiketinden alan slug'ı üretir: küçük harf, boşluk yerine
// tire, parantez ve bölü işaretleri atılır. Düz dışa aktarım alan adları ve
// grid satır anahtarları bu kuralla türetilir.
func SlugifyRow(row string) string {
	s := strings.ToLower(row)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	s = strings.ReplaceAll(s, "/", "")
	return s
}
