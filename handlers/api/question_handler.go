package handlers // handlers/api paketi

import (
	"errors"

	"anket.link/configs/configslog"
	"anket.link/repositories"
	"anket.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler soru bazlı raporlama uçları için JSON API handler'ı.
type QuestionHandler struct {
	service services.IQuestionService
}

// NewQuestionHandler yeni bir QuestionHandler örneği oluşturur.
func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{
		service: services.NewQuestionService(),
	}
}

type answerDomainRequest struct {
	Filters []repositories.AnswerDomainFilter `json:"filters"`
}

// GetAnswerDomain sorunun tekil cevap dağılımını döndürür. Gövde boş
// olabilir; filtreler isteğe bağlıdır.
func (h *QuestionHandler) GetAnswerDomain(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz ID"})
	}

	var req answerDomainRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Geçersiz istek gövdesi"})
		}
	}

	entries, err := h.service.GetAnswerDomain(c.UserContext(), uint(id), req.Filters)
	if err != nil {
		if errors.Is(err, services.ErrQuestionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		configslog.Log.Error("API - GetAnswerDomain Error", zap.Int("questionID", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Cevap dağılımı sorgulanamadı"})
	}
	return c.JSON(entries)
}
