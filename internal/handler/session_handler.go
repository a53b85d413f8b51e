package handler

import (
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/middleware"
	"dysscreen/internal/screening"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SessionHandler drives the screening flow of one learner.
type SessionHandler struct {
	sessions service.SessionService
}

func NewSessionHandler(sessions service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create godoc
// @Summary Start a screening session
// @Description Anonymous sessions are allowed; their results are transient
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Success 201 {object} dto.SessionResponse
// @Router /sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	resp, err := h.sessions.Create(c.Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	logger.Get().Info("Screening session started",
		zap.String("session_id", resp.Session.ID),
		zap.Bool("anonymous", resp.Session.UserID == ""),
	)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get godoc
// @Summary Get a screening session
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	resp, err := h.sessions.Get(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Abandon a screening session
// @Description Nothing submitted earlier is removed
// @Tags sessions
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.Context(), c.Params("id"), middleware.UserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitQualification godoc
// @Summary Submit the qualification quiz
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answers body dto.SubmitAnswersRequest true "Answers"
// @Success 200 {object} dto.StageResultResponse
// @Failure 409 {object} middleware.ErrorResponse "Session is not waiting for this stage"
// @Failure 422 {object} middleware.ErrorResponse
// @Router /sessions/{id}/qualification [post]
func (h *SessionHandler) SubmitQualification(c *fiber.Ctx) error {
	return h.submit(c, screening.StateQualification)
}

// SubmitSecondScreening godoc
// @Summary Submit the second screening
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answers body dto.SubmitAnswersRequest true "Answers"
// @Success 200 {object} dto.StageResultResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /sessions/{id}/second-screening [post]
func (h *SessionHandler) SubmitSecondScreening(c *fiber.Ctx) error {
	return h.submit(c, screening.StateSecondScreening)
}

// SubmitTest godoc
// @Summary Submit the test of the chosen disability
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answers body dto.SubmitAnswersRequest true "Answers"
// @Success 200 {object} dto.StageResultResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Router /sessions/{id}/test [post]
func (h *SessionHandler) SubmitTest(c *fiber.Ctx) error {
	return h.submit(c, screening.StateTest)
}

func (h *SessionHandler) submit(c *fiber.Ctx, stage screening.State) error {
	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.sessions.SubmitAnswers(c.Context(), c.Params("id"), middleware.UserID(c), stage, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Retake godoc
// @Summary Retake the second screening
// @Description Allowed after no category reached the threshold
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/retake [post]
func (h *SessionHandler) Retake(c *fiber.Ctx) error {
	resp, err := h.sessions.RetakeSecondScreening(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ChooseDisability godoc
// @Summary Choose a disability in the hub
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param choice body dto.ChooseDisabilityRequest true "Disability"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/disability [post]
func (h *SessionHandler) ChooseDisability(c *fiber.Ctx) error {
	var req dto.ChooseDisabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.sessions.ChooseDisability(c.Context(), c.Params("id"), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// EnterMode godoc
// @Summary Choose Test or Learn for the chosen disability
// @Tags sessions
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param mode body dto.ChooseModeRequest true "Mode"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/mode [post]
func (h *SessionHandler) EnterMode(c *fiber.Ctx) error {
	var req dto.ChooseModeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.sessions.EnterMode(c.Context(), c.Params("id"), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Finish godoc
// @Summary Leave the learn view
// @Tags sessions
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /sessions/{id}/finish [post]
func (h *SessionHandler) Finish(c *fiber.Ctx) error {
	resp, err := h.sessions.Finish(c.Context(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
