package handlers // handlers/api paketi

import (
	"errors"

	"anket.link/configs/configslog"
	"anket.link/models"
	"anket.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SurveyHandler anket tanımı ve raporlama uçları için JSON API handler'ı.
type SurveyHandler struct {
	service services.ISurveyService
}

// NewSurveyHandler yeni bir SurveyHandler örneği oluşturur.
func NewSurveyHandler() *SurveyHandler {
	return &SurveyHandler{
		service: services.NewSurveyService(),
	}
}

// CreateSurvey anketi sorularıyla birlikte oluşturur.
func (h *SurveyHandler) CreateSurvey(c *fiber.Ctx) error {
	var survey models.Survey
	if err := c.BodyParser(&survey); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	if err := h.service.CreateSurvey(c.UserContext(), &survey); err != nil {
		if errors.Is(err, services.ErrSrvInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - CreateSurvey Error", zap.String("slug", survey.Slug), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Anket oluşturulamadı"})
	}
	return c.Status(fiber.StatusCreated).JSON(survey)
}

// CountSurveys kayıtlı anket sayısını döndürür.
func (h *SurveyHandler) CountSurveys(c *fiber.Ctx) error {
	count, err := h.service.CountSurveys(c.UserContext())
	if err != nil {
		configslog.Log.Error("API - CountSurveys Error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Anketler sayılamadı"})
	}
	return c.JSON(fiber.Map{"count": count})
}

// GetSurvey anketi sıralı sorularıyla döndürür.
func (h *SurveyHandler) GetSurvey(c *fiber.Ctx) error {
	slug := c.Params("slug")

	survey, err := h.service.GetSurveyBySlug(c.UserContext(), slug)
	if err != nil {
		if errors.Is(err, services.ErrSurveyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - GetSurvey Error", zap.String("slug", slug), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Anket getirilemedi"})
	}
	return c.JSON(survey)
}

// GetStats anketin özet sayaçlarını döndürür.
func (h *SurveyHandler) GetStats(c *fiber.Ctx) error {
	slug := c.Params("slug")

	stats, err := h.service.GetStats(c.UserContext(), slug)
	if err != nil {
		if errors.Is(err, services.ErrSurveyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - GetStats Error", zap.String("slug", slug), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "İstatistikler hesaplanamadı"})
	}
	return c.JSON(stats)
}

// GetFieldNames anketin düz dışa aktarım sütun listesini döndürür.
func (h *SurveyHandler) GetFieldNames(c *fiber.Ctx) error {
	slug := c.Params("slug")

	fields, err := h.service.GetFieldNames(c.UserContext(), slug)
	if err != nil {
		if errors.Is(err, services.ErrSurveyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - GetFieldNames Error", zap.String("slug", slug), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Alan adları üretilemedi"})
	}

	out := make([]fiber.Map, 0, len(fields))
	for _, f := range fields {
		out = append(out, fiber.Map{"slug": f.Slug, "label": f.Label})
	}
	return c.JSON(out)
}
