package handler

import (
	"dysscreen/internal/dto"
	"dysscreen/internal/logger"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account and signs it in.
// @Summary Register
// @Description Creates a user account and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Account"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.authService.Register(c.Context(), req)
	if err != nil {
		return err
	}
	logger.Get().Info("User registered", zap.String("userID", resp.User.ID))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login signs in with email and password.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.authService.Login(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
