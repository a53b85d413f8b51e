package handler

import (
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	health service.HealthService
}

func NewHealthHandler(health service.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

// Health godoc
// @Summary Service health
// @Description Pings the database and Redis
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse "A dependency is down"
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := h.health.Check(c.Context())
	status := fiber.StatusOK
	if resp.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
