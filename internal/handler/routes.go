package handler

import (
	"dysscreen/internal/middleware"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
)

const maxLeaderboardLimit = 100

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Question *QuestionHandler
	Result   *ResultHandler
	Session  *SessionHandler
	Game     *GameHandler
	Content  *ContentHandler
	Admin    *AdminHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app *fiber.App, h Handlers, authService service.AuthService) {
	protected := middleware.Protected(authService)
	optional := middleware.OptionalAuth(authService)
	vm := middleware.NewValidationMiddleware()

	api := app.Group("/api")
	api.Get("/health", h.Health.Health)

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)

	api.Get("/users/me", protected, h.User.GetMyProfile)

	api.Get("/questions/:quizType", h.Question.GetQuestions)
	api.Get("/second-screening", h.Question.GetSecondScreening)

	results := api.Group("/quiz-results")
	results.Post("/", optional, h.Result.SaveQuizResult)
	results.Get("/latest", protected, vm.ValidateForceRetake(), h.Result.GetLatest)
	results.Get("/history", protected, h.Result.GetHistory)
	results.Get("/anonymous/:token", h.Result.GetAnonymous)

	sessions := api.Group("/sessions", optional)
	sessions.Post("/", h.Session.Create)
	sessions.Get("/:id", h.Session.Get)
	sessions.Delete("/:id", h.Session.Delete)
	sessions.Post("/:id/qualification", h.Session.SubmitQualification)
	sessions.Post("/:id/second-screening", h.Session.SubmitSecondScreening)
	sessions.Post("/:id/test", h.Session.SubmitTest)
	sessions.Post("/:id/retake", h.Session.Retake)
	sessions.Post("/:id/disability", h.Session.ChooseDisability)
	sessions.Post("/:id/mode", h.Session.EnterMode)
	sessions.Post("/:id/finish", h.Session.Finish)

	api.Post("/game-results", protected, h.Game.SaveResult)
	api.Get("/game-results/:disability", protected, h.Game.ListResults)
	api.Get("/leaderboard/:disability/:activity", vm.ValidateLimit(maxLeaderboardLimit), h.Game.Leaderboard)

	api.Get("/disability/:type", h.Content.GetContent)
	api.Post("/chat", h.Content.Chat)

	admin := api.Group("/admin", protected, middleware.AdminOnly())
	admin.Get("/questions", h.Question.ListAllQuestions)
	admin.Post("/questions", h.Question.CreateQuestion)
	admin.Put("/questions/:quizType/:id", h.Question.UpdateQuestion)
	admin.Delete("/questions/:quizType/:id", h.Question.DeleteQuestion)
	admin.Put("/second-screening", h.Question.SaveSecondScreening)
	admin.Put("/disability/:type", h.Content.UpdateContent)
	admin.Get("/results", vm.ValidatePagination(), h.Admin.ListResults)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Get("/overview", h.Admin.Overview)
}
