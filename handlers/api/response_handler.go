package handlers // handlers/api paketi

import (
	"errors"
	"time"

	"anket.link/configs/configslog"
	"anket.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ResponseHandler cevap kayıt uçları için JSON API handler'ı.
type ResponseHandler struct {
	service services.IResponseService
}

// NewResponseHandler yeni bir ResponseHandler örneği oluşturur.
func NewResponseHandler() *ResponseHandler {
	return &ResponseHandler{
		service: services.NewResponseService(),
	}
}

type createResponseRequest struct {
	QuestionID     uint   `json:"question_id"`
	RespondantUUID string `json:"respondant_uuid"`
	AnswerRaw      string `json:"answer_raw"`
	Ts             string `json:"ts"`
}

type updateResponseRequest struct {
	AnswerRaw string `json:"answer_raw"`
}

// CreateResponse ham cevabı kaydeder; türetilmiş kayıtlar ve dışa aktarım
// satırı aynı istekte güncellenir.
func (h *ResponseHandler) CreateResponse(c *fiber.Ctx) error {
	var req createResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	input := services.CreateResponseInput{
		QuestionID:     req.QuestionID,
		RespondantUUID: req.RespondantUUID,
		AnswerRaw:      req.AnswerRaw,
	}
	if req.Ts != "" {
		ts, err := time.Parse(time.RFC3339, req.Ts)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ts RFC3339 formatında olmalı"})
		}
		input.Ts = ts
	}

	response, err := h.service.CreateResponse(c.UserContext(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrQuestionNotFoundForAnswer),
			errors.Is(err, services.ErrRespondantNotFoundForAnswer):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrRspnInvalidInput),
			errors.Is(err, services.ErrMalformedAnswerPayload),
			errors.Is(err, services.ErrUnsupportedQuestionType):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - CreateResponse Error",
			zap.Uint("questionID", req.QuestionID),
			zap.String("respondantUUID", req.RespondantUUID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cevap kaydedilemedi"})
	}
	return c.Status(fiber.StatusCreated).JSON(response)
}

// UpdateResponse ham cevabı günceller; normalizasyon tekrarlanmaz.
func (h *ResponseHandler) UpdateResponse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz ID"})
	}

	var req updateResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
	}

	if err := h.service.UpdateResponseRaw(c.UserContext(), uint(id), req.AnswerRaw); err != nil {
		if errors.Is(err, services.ErrResponseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - UpdateResponse Error", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cevap güncellenemedi"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetResponse cevabı çocuk kayıtlarıyla döndürür.
func (h *ResponseHandler) GetResponse(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz ID"})
	}

	response, err := h.service.GetResponseByID(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrResponseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - GetResponse Error", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cevap getirilemedi"})
	}
	return c.JSON(response)
}
