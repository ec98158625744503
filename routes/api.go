package routes

import (
	api_handlers "anket.link/handlers/api"

	"github.com/gofiber/fiber/v2"
)

// registerAPIRoutes /api altındaki JSON uçlarını tanımlar.
func registerAPIRoutes(app *fiber.App) {
	// Handler instance'larını başta oluştur
	surveyHandler := api_handlers.NewSurveyHandler()
	questionHandler := api_handlers.NewQuestionHandler()
	respondantHandler := api_handlers.NewRespondantHandler()
	responseHandler := api_handlers.NewResponseHandler()

	apiGroup := app.Group("/api")

	// --- Anket Tanımı ve Raporlama ---
	apiGroup.Post("/surveys", surveyHandler.CreateSurvey)                   // POST /api/surveys
	apiGroup.Get("/surveys/count", surveyHandler.CountSurveys)              // GET /api/surveys/count
	apiGroup.Get("/surveys/:slug", surveyHandler.GetSurvey)                 // GET /api/surveys/{slug}
	apiGroup.Get("/surveys/:slug/stats", surveyHandler.GetStats)            // GET /api/surveys/{slug}/stats
	apiGroup.Get("/surveys/:slug/field-names", surveyHandler.GetFieldNames) // GET /api/surveys/{slug}/field-names

	// --- Soru Bazlı Raporlama ---
	apiGroup.Post("/questions/:id/answer-domain", questionHandler.GetAnswerDomain) // POST /api/questions/{id}/answer-domain

	// --- Anket Oturumları ---
	apiGroup.Get("/respondants", respondantHandler.ListRespondants)              // GET /api/respondants?survey_id=
	apiGroup.Post("/respondants", respondantHandler.CreateRespondant)            // POST /api/respondants
	apiGroup.Post("/respondants/report", respondantHandler.FilterReport)         // POST /api/respondants/report
	apiGroup.Get("/respondants/:uuid", respondantHandler.GetRespondant)          // GET /api/respondants/{uuid}
	apiGroup.Put("/respondants/:uuid", respondantHandler.UpdateRespondant)       // PUT /api/respondants/{uuid}
	apiGroup.Put("/respondants/:uuid/review", respondantHandler.SetReviewStatus) // PUT /api/respondants/{uuid}/review
	apiGroup.Get("/respondants/:uuid/flat", respondantHandler.GetFlatExport)     // GET /api/respondants/{uuid}/flat

	// --- Cevaplar ---
	apiGroup.Post("/responses", responseHandler.CreateResponse)    // POST /api/responses
	apiGroup.Get("/responses/:id", responseHandler.GetResponse)    // GET /api/responses/{id}
	apiGroup.Put("/responses/:id", responseHandler.UpdateResponse) // PUT /api/responses/{id}
}
