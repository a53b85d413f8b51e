package handler

import (
	"dysscreen/internal/dto"
	"dysscreen/internal/middleware"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ResultHandler struct {
	results service.ResultService
}

func NewResultHandler(results service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// SaveQuizResult godoc
// @Summary Score and save a quiz
// @Description Anonymous submissions are scored and returned with a token; they are never stored in the database
// @Tags results
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param result body dto.SaveQuizResultRequest true "Answers"
// @Success 201 {object} dto.QuizResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /quiz-results [post]
func (h *ResultHandler) SaveQuizResult(c *fiber.Ctx) error {
	var req dto.SaveQuizResultRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.results.SaveQuizResult(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetLatest godoc
// @Summary Latest result of a quiz type
// @Description Tells the client whether to show the "skip or retake" prompt and replays stored answers onto the current questions
// @Tags results
// @Security ApiKeyAuth
// @Produce json
// @Param type query string true "Quiz type"
// @Param force_retake query bool false "Skip the prompt"
// @Success 200 {object} dto.LatestResultResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /quiz-results/latest [get]
func (h *ResultHandler) GetLatest(c *fiber.Ctx) error {
	resp, err := h.results.GetLatest(c.Context(), middleware.UserID(c), c.Query("type"), middleware.ForceRetake(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetHistory godoc
// @Summary Result history of the caller
// @Tags results
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.ResultHistoryResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /quiz-results/history [get]
func (h *ResultHandler) GetHistory(c *fiber.Ctx) error {
	resp, err := h.results.GetHistory(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetAnonymous godoc
// @Summary Read a transient result
// @Tags results
// @Produce json
// @Param token path string true "Result token"
// @Success 200 {object} dto.QuizResultResponse
// @Failure 404 {object} middleware.ErrorResponse "Unknown or expired token"
// @Router /quiz-results/anonymous/{token} [get]
func (h *ResultHandler) GetAnonymous(c *fiber.Ctx) error {
	resp, err := h.results.GetAnonymous(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
