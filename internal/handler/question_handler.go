package handler

import (
	"dysscreen/internal/domain"
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler serves the question bank and the second screening
// configuration.
type QuestionHandler struct {
	questions service.QuestionService
	configs   service.ScreeningConfigService
}

func NewQuestionHandler(questions service.QuestionService, configs service.ScreeningConfigService) *QuestionHandler {
	return &QuestionHandler{questions: questions, configs: configs}
}

// GetQuestions godoc
// @Summary Get the questions of a quiz
// @Description Returns the ordered questions of one quiz type with the maximum attainable score
// @Tags questions
// @Produce json
// @Param quizType path string true "qualification, dyslexia, dysgraphia, dyscalculia or general"
// @Success 200 {object} dto.QuestionListResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /questions/{quizType} [get]
func (h *QuestionHandler) GetQuestions(c *fiber.Ctx) error {
	resp, err := h.questions.GetQuestions(c.Context(), c.Params("quizType"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListAllQuestions godoc
// @Summary List every question
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/questions [get]
func (h *QuestionHandler) ListAllQuestions(c *fiber.Ctx) error {
	resp, err := h.questions.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CreateQuestion godoc
// @Summary Create a question
// @Description Options are generated from the weight when omitted
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param question body dto.QuestionRequest true "Question"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/questions [post]
func (h *QuestionHandler) CreateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.questions.CreateQuestion(c.Context(), req)
	if err != nil {
		return err
	}
	logger.Get().Info("Question created", zap.String("id", resp.ID), zap.String("quiz_type", resp.QuizType))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param quizType path string true "Quiz type"
// @Param id path string true "Question ID"
// @Param question body dto.QuestionRequest true "Question"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{quizType}/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *fiber.Ctx) error {
	var req dto.QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.questions.UpdateQuestion(c.Context(), c.Params("quizType"), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Description Stored answers to the question are kept; they are dropped on replay
// @Tags admin
// @Security ApiKeyAuth
// @Param quizType path string true "Quiz type"
// @Param id path string true "Question ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /admin/questions/{quizType}/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *fiber.Ctx) error {
	if err := h.questions.DeleteQuestion(c.Context(), c.Params("quizType"), c.Params("id")); err != nil {
		return err
	}
	logger.Get().Info("Question deleted", zap.String("id", c.Params("id")), zap.String("quiz_type", c.Params("quizType")))
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSecondScreening godoc
// @Summary Get the second screening set
// @Description Returns the threshold and the resolved questions per disability category
// @Tags questions
// @Produce json
// @Success 200 {object} dto.SecondScreeningResponse
// @Failure 409 {object} middleware.ErrorResponse "Configured question no longer exists"
// @Router /second-screening [get]
func (h *QuestionHandler) GetSecondScreening(c *fiber.Ctx) error {
	resp, err := h.configs.GetSecondScreening(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SaveSecondScreening godoc
// @Summary Save the second screening configuration
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param config body dto.SaveSecondScreeningRequest true "Configuration"
// @Success 200 {object} dto.SecondScreeningResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/second-screening [put]
func (h *QuestionHandler) SaveSecondScreening(c *fiber.Ctx) error {
	var req dto.SaveSecondScreeningRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.configs.SaveSecondScreening(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func invalidBody(err error) error {
	logger.Get().Debug("Failed to parse request body", zap.Error(err))
	return domain.NewInvalidInputError("invalid request body")
}
