package handlers // handlers/api paketi

import (
	"errors"
	"time"

	"anket.link/configs/configslog"
	"anket.link/models"
	"anket.link/pkg/queryparams"
	"anket.link/repositories"
	"anket.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RespondantHandler anket oturumları için JSON API handler'ı.
type RespondantHandler struct {
	service services.IRespondantService
}

// NewRespondantHandler yeni bir RespondantHandler örneği oluşturur.
func NewRespondantHandler() *RespondantHandler {
	return &RespondantHandler{
		service: services.NewRespondantService(),
	}
}

type createRespondantRequest struct {
	UUID         string  `json:"uuid"`
	SurveyID     uint    `json:"survey_id"`
	ReturnURL    string  `json:"return_url"`
	SurveyorName string  `json:"surveyor_name"`
	SurveySite   string  `json:"survey_site"`
	Email        *string `json:"email"`
	Ts           string  `json:"ts"`
	TestData     bool    `json:"test_data"`
}

type updateRespondantRequest struct {
	Complete     *bool                    `json:"complete"`
	Status       *models.RespondantStatus `json:"status"`
	LastQuestion *string                  `json:"last_question"`
	SurveySite   *string                  `json:"survey_site"`
	Email        *string                  `json:"email"`
}

type reviewStatusRequest struct {
	ReviewStatus models.ReviewStatus `json:"review_status"`
	Comment      string              `json:"comment"`
}

// CreateRespondant yeni bir anket oturumu açar.
func (h *RespondantHandler) CreateRespondant(c *fiber.Ctx) error {
	var req createRespondantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	input := services.CreateRespondantInput{
		UUID:         req.UUID,
		SurveyID:     req.SurveyID,
		ReturnURL:    req.ReturnURL,
		SurveyorName: req.SurveyorName,
		SurveySite:   req.SurveySite,
		Email:        req.Email,
		TestData:     req.TestData,
	}
	if req.Ts != "" {
		ts, err := time.Parse(time.RFC3339, req.Ts)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ts RFC3339 formatında olmalı"})
		}
		input.Ts = ts
	}

	respondant, err := h.service.CreateRespondant(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSurveyNotFoundForRsp):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrRspInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - CreateRespondant Error", zap.Uint("surveyID", req.SurveyID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Respondant oluşturulamadı"})
	}
	return c.Status(fiber.StatusCreated).JSON(respondant)
}

// UpdateRespondant mevcut oturumu günceller.
func (h *RespondantHandler) UpdateRespondant(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	var req updateRespondantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	respondant, err := h.service.UpdateRespondant(c.UserContext(), uuid, services.UpdateRespondantInput{
		Complete:     req.Complete,
		Status:       req.Status,
		LastQuestion: req.LastQuestion,
		SurveySite:   req.SurveySite,
		Email:        req.Email,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRespondantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrStatusAlreadySet), errors.Is(err, services.ErrInvalidStatus):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrRspInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - UpdateRespondant Error", zap.String("uuid", uuid), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Respondant güncellenemedi"})
	}
	return c.JSON(respondant)
}

// SetReviewStatus gözden geçirme durumunu değiştirir.
func (h *RespondantHandler) SetReviewStatus(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	var req reviewStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	err := h.service.SetReviewStatus(c.UserContext(), uuid, req.ReviewStatus, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRespondantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidReviewStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - SetReviewStatus Error", zap.String("uuid", uuid), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Gözden geçirme durumu değiştirilemedi"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetRespondant oturumu cevaplarıyla birlikte döndürür.
func (h *RespondantHandler) GetRespondant(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	respondant, err := h.service.GetRespondant(c.UserContext(), uuid)
	if err != nil {
		if errors.Is(err, services.ErrRespondantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - GetRespondant Error", zap.String("uuid", uuid), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Respondant getirilemedi"})
	}
	return c.JSON(respondant)
}

// GetFlatExport oturumun düz (slug -> değer) dışa aktarım eşlemesini döndürür.
func (h *RespondantHandler) GetFlatExport(c *fiber.Ctx) error {
	uuid := c.Params("uuid")

	flat, err := h.service.GetFlatExport(c.UserContext(), uuid)
	if err != nil {
		if errors.Is(err, services.ErrRespondantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - GetFlatExport Error", zap.String("uuid", uuid), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Dışa aktarım satırı üretilemedi"})
	}
	return c.JSON(flat)
}

type reportFilterRequest struct {
	SurveySlug   string              `json:"survey_slug"`
	StartDate    *time.Time          `json:"start_date"`
	EndDate      *time.Time          `json:"end_date"`
	Market       string              `json:"market"`
	SurveyorName string              `json:"surveyor_name"`
	ReviewStatus models.ReviewStatus `json:"review_status"`
}

// FilterReport rapor ölçütlerine uyan oturumları döndürür.
func (h *RespondantHandler) FilterReport(c *fiber.Ctx) error {
	var req reportFilterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}
	if req.SurveySlug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "survey_slug zorunludur"})
	}

	respondants, err := h.service.FilterForReport(c.UserContext(), repositories.ReportFilter{
		SurveySlug:   req.SurveySlug,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Market:       req.Market,
		SurveyorName: req.SurveyorName,
		ReviewStatus: req.ReviewStatus,
	})
	if err != nil {
		configslog.Log.Error("API - FilterReport Error", zap.String("surveySlug", req.SurveySlug), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Rapor filtrelenemedi"})
	}
	return c.JSON(respondants)
}

// ListRespondants anketin oturumlarını sayfalı listeler.
func (h *RespondantHandler) ListRespondants(c *fiber.Ctx) error {
	surveyID := uint(c.QueryInt("survey_id"))

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		configslog.Log.Warn("API - ListRespondants: Query parse error", zap.Error(err))
		params = queryparams.DefaultListParams("created_at")
	}

	result, err := h.service.ListRespondants(c.UserContext(), surveyID, params)
	if err != nil {
		if errors.Is(err, services.ErrRspInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - ListRespondants Error", zap.Uint("surveyID", surveyID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Respondant'lar listelenemedi"})
	}
	return c.JSON(result)
}
