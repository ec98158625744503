// Package normalize ham cevap JSON'unu soru tipine göre tekil bir sonuca
// indirger: görüntü metni, sayısal/tarih projeksiyonları ve tipli çocuk
// kayıtların (multi, grid, nokta) bellek içi karşılıkları. Paket saf veri
// dönüşümüdür; I/O yapmaz, kalıcılaştırma çağıran servise aittir.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"anket.link/models"
)

// DateLayout datepicker cevaplarının beklenen formatı (MM/DD/YYYY).
const DateLayout = "01/02/2006"

// GridCol bir grid sorusunun sütun tanımının normalizasyon için gereken kısmı.
type GridCol struct {
	Text  string
	Label string
	Type  models.QuestionType
}

// MultiValue multi-select cevabının tek bir seçimi.
type MultiValue struct {
	Text  string
	Label string
}

// PointAnswer bir coğrafi noktaya iliştirilmiş alt cevap.
type PointAnswer struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Point map-multipoint / pennies cevabının tek bir noktası.
type Point struct {
	Lat     float64
	Lng     float64
	Answers []PointAnswer // Noktanın ilk cevap grubu
}

// GridCell bir grid cevabının tek hücresi. Sayısal sütunlarda Number da dolar;
// multi-select sütunlar seçilen değer başına bir hücreye açılır.
type GridCell struct {
	RowText  string
	RowLabel string
	ColText  string
	ColLabel string
	Text     string
	Number   *float64
}

// SkippedCell normalizasyon sırasında atlanan bir grid hücresini tanımlar.
// Hücre bazında bir hatadır; kardeş hücreleri durdurmaz, çağıran loglar.
type SkippedCell struct {
	RowLabel string
	ColLabel string
	Reason   string
}

// Result tek bir ham cevabın normalize edilmiş halidir.
type Result struct {
	Display *string
	Number  *float64
	Date    *time.Time
	Multi   []MultiValue
	Points  []Point
	Grid    []GridCell
	Skipped []SkippedCell
}

// UnsupportedTypeError bilinmeyen bir soru tipi etiketinin normalizasyona
// ulaştığını bildirir.
type UnsupportedTypeError struct {
	Type models.QuestionType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("desteklenmeyen soru tipi: %q", string(e.Type))
}

// MalformedPayloadError ham cevabın soru tipinin beklediği şekle
// çözümlenemediğini bildirir.
type MalformedPayloadError struct {
	Type   models.QuestionType
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("bozuk cevap verisi (%s): %s", string(e.Type), e.Reason)
}

// Normalize ham cevabı soru tipine göre çözümler. Response oluşturulurken
// tam bir kez çağrılır; sonraki düzenlemelerde çağrılmaz.
//
// Sayısal tiplerde çözümlenemeyen değer hata değildir: Display ve Number boş
// bırakılır (bilinçli politika, bkz. DESIGN.md). Bilinmeyen tip etiketi ise
// UnsupportedTypeError ile reddedilir.
func Normalize(qt models.QuestionType, raw string, gridCols []GridCol) (*Result, error) {
	res := &Result{}
	if raw == "" {
		return res, nil
	}

	switch qt {
	case models.QuestionTypeInfo, models.QuestionTypeText, models.QuestionTypeTextArea,
		models.QuestionTypeTimePicker, models.QuestionTypeDateTimePicker,
		models.QuestionTypeLocation:
		display, err := decodeScalar(qt, raw)
		if err != nil {
			return nil, err
		}
		res.Display = &display

	case models.QuestionTypeDatePicker:
		display, err := decodeScalar(qt, raw)
		if err != nil {
			return nil, err
		}
		parsed, err := time.Parse(DateLayout, strings.TrimSpace(display))
		if err != nil {
			return nil, &MalformedPayloadError{Type: qt, Reason: "tarih MM/DD/YYYY formatında değil"}
		}
		res.Display = &display
		res.Date = &parsed

	case models.QuestionTypeCurrency, models.QuestionTypeInteger, models.QuestionTypeNumber:
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, &MalformedPayloadError{Type: qt, Reason: err.Error()}
		}
		if num, ok := value.(float64); ok {
			display := FormatNumber(num)
			res.Display = &display
			res.Number = &num
		}
		// Sayı değilse Display ve Number boş kalır; hata üretilmez.

	case models.QuestionTypeSingleSelect, models.QuestionTypeAutoSingleSelect,
		models.QuestionTypeYesNo:
		display, err := decodeSelect(qt, raw)
		if err != nil {
			return nil, err
		}
		res.Display = &display

	case models.QuestionTypeMultiSelect:
		if err := normalizeMulti(qt, raw, res); err != nil {
			return nil, err
		}

	case models.QuestionTypeMapMultipoint, models.QuestionTypePennies:
		if err := normalizePoints(qt, raw, res); err != nil {
			return nil, err
		}

	case models.QuestionTypeGrid:
		if err := normalizeGrid(qt, raw, gridCols, res); err != nil {
			return nil, err
		}

	default:
		return nil, &UnsupportedTypeError{Type: qt}
	}

	return res, nil
}

// decodeScalar ham JSON'u düz metin görüntüye indirger.
func decodeScalar(qt models.QuestionType, raw string) (string, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", &MalformedPayloadError{Type: qt, Reason: err.Error()}
	}
	return stringifyScalar(value), nil
}

// decodeSelect tekli seçim cevabını çözer. Nesne formunda name alanı text'e
// tercih edilir ve değer kırpılır; düz skaler ise olduğu gibi geçer.
func decodeSelect(qt models.QuestionType, raw string) (string, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return "", &MalformedPayloadError{Type: qt, Reason: err.Error()}
	}
	if obj, ok := value.(map[string]any); ok {
		return selectText(obj), nil
	}
	return stringifyScalar(value), nil
}

func normalizeMulti(qt models.QuestionType, raw string, res *Result) error {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return &MalformedPayloadError{Type: qt, Reason: "dizi bekleniyordu: " + err.Error()}
	}
	texts := make([]string, 0, len(items))
	for _, item := range items {
		var mv MultiValue
		if obj, ok := item.(map[string]any); ok {
			mv.Text = selectText(obj)
			if label, ok := obj["label"].(string); ok {
				mv.Label = label
			}
		} else {
			mv.Text = strings.TrimSpace(stringifyScalar(item))
		}
		texts = append(texts, mv.Text)
		res.Multi = append(res.Multi, mv)
	}
	display := strings.Join(texts, ", ")
	res.Display = &display
	return nil
}

// rawPoint noktanın lat/lng'sini gönderildiği haliyle (json.Number) korur ki
// görüntü özeti "1.0,2.0" gibi client'ın yazdığı biçimde kalsın.
type rawPoint struct {
	Lat     json.Number     `json:"lat"`
	Lng     json.Number     `json:"lng"`
	Answers json.RawMessage `json:"answers"`
}

func normalizePoints(qt models.QuestionType, raw string, res *Result) error {
	// Eski client'lar diziyi iki kez JSON'lanmış gönderir: önce string'e,
	// sonra gövdeye. Tek ve çift kodlanmış halleri birlikte kabul edilir.
	body := []byte(raw)
	var inner string
	if err := json.Unmarshal(body, &inner); err == nil {
		body = []byte(inner)
	}

	var points []rawPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return &MalformedPayloadError{Type: qt, Reason: "nokta dizisi çözülemedi: " + err.Error()}
	}

	summaries := make([]string, 0, len(points))
	for _, rp := range points {
		lat, latErr := rp.Lat.Float64()
		lng, lngErr := rp.Lng.Float64()
		if latErr != nil || lngErr != nil {
			return &MalformedPayloadError{Type: qt, Reason: "lat/lng sayı değil"}
		}

		point := Point{Lat: lat, Lng: lng}

		// Alt cevaplar noktanın ilk cevap grubundan alınır.
		var groups [][]PointAnswer
		if len(rp.Answers) > 0 {
			if err := json.Unmarshal(rp.Answers, &groups); err != nil {
				return &MalformedPayloadError{Type: qt, Reason: "alt cevaplar çözülemedi: " + err.Error()}
			}
		}
		if len(groups) > 0 {
			point.Answers = groups[0]
		}

		summaries = append(summaries, pointSummary(rp))
		res.Points = append(res.Points, point)
	}

	display := strings.Join(summaries, ", ")
	res.Display = &display
	return nil
}

// pointSummary "lat,lng: cevaplar" biçiminde tek nokta özeti üretir.
func pointSummary(rp rawPoint) string {
	answers := "[]"
	if len(rp.Answers) > 0 {
		var compact any
		if err := json.Unmarshal(rp.Answers, &compact); err == nil {
			if b, err := json.Marshal(compact); err == nil {
				answers = string(b)
			}
		}
	}
	return fmt.Sprintf("%s,%s: %s", rp.Lat.String(), rp.Lng.String(), answers)
}

func normalizeGrid(qt models.QuestionType, raw string, gridCols []GridCol, res *Result) error {
	var rows []map[string]any
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return &MalformedPayloadError{Type: qt, Reason: "satır dizisi çözülemedi: " + err.Error()}
	}

	for _, row := range rows {
		rowLabel, _ := row["label"].(string)
		rowText, _ := row["text"].(string)

		for _, col := range gridCols {
			key := strings.ReplaceAll(col.Label, "-", "")

			switch col.Type {
			case models.QuestionTypeCurrency, models.QuestionTypeInteger,
				models.QuestionTypeNumber, models.QuestionTypeSingleSelect,
				models.QuestionTypeText, models.QuestionTypeYesNo:
				value, ok := row[key]
				if !ok {
					res.Skipped = append(res.Skipped, SkippedCell{
						RowLabel: rowLabel, ColLabel: col.Label,
						Reason: "hücre anahtarı bulunamadı: " + key,
					})
					continue
				}
				cell := GridCell{
					RowText: rowText, RowLabel: rowLabel,
					ColText: col.Text, ColLabel: col.Label,
					Text: stringifyScalar(value),
				}
				if num := coerceNumber(value); num != nil {
					cell.Number = num
				}
				res.Grid = append(res.Grid, cell)

			case models.QuestionTypeMultiSelect:
				values, ok := row[key].([]any)
				if !ok {
					res.Skipped = append(res.Skipped, SkippedCell{
						RowLabel: rowLabel, ColLabel: col.Label,
						Reason: "multi-select hücresi dizi değil: " + key,
					})
					continue
				}
				for _, value := range values {
					res.Grid = append(res.Grid, GridCell{
						RowText: rowText, RowLabel: rowLabel,
						ColText: col.Text, ColLabel: col.Label,
						Text: stringifyScalar(value),
					})
				}

			default:
				res.Skipped = append(res.Skipped, SkippedCell{
					RowLabel: rowLabel, ColLabel: col.Label,
					Reason: "desteklenmeyen sütun tipi: " + string(col.Type),
				})
			}
		}
	}
	return nil
}

// selectText name alanını text'e tercih eder; her ikisi de kırpılır.
func selectText(obj map[string]any) string {
	if name, ok := obj["name"].(string); ok && name != "" {
		return strings.TrimSpace(name)
	}
	if text, ok := obj["text"].(string); ok && text != "" {
		return strings.TrimSpace(text)
	}
	return ""
}

// coerceNumber hücre değerini sayıya çevirir; metin kodlu sayılar da
// ("4" gibi) kabul edilir. Çevrilemiyorsa nil döner.
func coerceNumber(value any) *float64 {
	switch v := value.(type) {
	case float64:
		return &v
	case string:
		if num, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &num
		}
	}
	return nil
}

// stringifyScalar JSON skaler değerini görüntü metnine çevirir.
func stringifyScalar(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return FormatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// FormatNumber sayıyı gereksiz sıfırlar olmadan yazar (5 → "5", 5.5 → "5.5").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
