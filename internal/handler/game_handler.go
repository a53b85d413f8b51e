package handler

import (
	"dysscreen/internal/dto"
	"dysscreen/internal/middleware"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GameHandler struct {
	games service.GameService
}

func NewGameHandler(games service.GameService) *GameHandler {
	return &GameHandler{games: games}
}

// SaveResult godoc
// @Summary Record a finished game
// @Tags games
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param result body dto.GameResultRequest true "Game result"
// @Success 201 {object} dto.GameResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /game-results [post]
func (h *GameHandler) SaveResult(c *fiber.Ctx) error {
	var req dto.GameResultRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.games.SaveResult(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListResults godoc
// @Summary Game results of the caller for one disability
// @Tags games
// @Security ApiKeyAuth
// @Produce json
// @Param disability path string true "dyslexia, dysgraphia or dyscalculia"
// @Success 200 {array} dto.GameResultResponse
// @Router /game-results/{disability} [get]
func (h *GameHandler) ListResults(c *fiber.Ctx) error {
	resp, err := h.games.ListResults(c.Context(), middleware.UserID(c), c.Params("disability"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Leaderboard godoc
// @Summary Best score per user for one activity
// @Tags games
// @Produce json
// @Param disability path string true "Disability"
// @Param activity path string true "Activity"
// @Param limit query int false "Top N (default 10)"
// @Success 200 {object} dto.LeaderboardResponse
// @Router /leaderboard/{disability}/{activity} [get]
func (h *GameHandler) Leaderboard(c *fiber.Ctx) error {
	resp, err := h.games.Leaderboard(c.Context(), c.Params("disability"), c.Params("activity"), middleware.Limit(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
