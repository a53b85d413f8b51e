package handler

import (
	"dysscreen/internal/middleware"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the read-only admin views.
type AdminHandler struct {
	admin   service.AdminService
	results service.ResultService
	users   service.UserService
}

func NewAdminHandler(admin service.AdminService, results service.ResultService, users service.UserService) *AdminHandler {
	return &AdminHandler{admin: admin, results: results, users: users}
}

// ListResults godoc
// @Summary Every stored attempt with its verdict
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.AdminResultsResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/results [get]
func (h *AdminHandler) ListResults(c *fiber.Ctx) error {
	resp, err := h.results.ListAll(c.Context(), middleware.Pagination(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListUsers godoc
// @Summary Every account
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} dto.UserProfileResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	resp, err := h.users.ListUsers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Overview godoc
// @Summary Dashboard counts
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.AdminOverviewResponse
// @Router /admin/overview [get]
func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	resp, err := h.admin.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
