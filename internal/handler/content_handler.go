package handler

import (
	"dysscreen/internal/dto"
	"dysscreen/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	content service.ContentService
	chat    service.ChatService
}

func NewContentHandler(content service.ContentService, chat service.ChatService) *ContentHandler {
	return &ContentHandler{content: content, chat: chat}
}

// GetContent godoc
// @Summary Learning material of a disability
// @Tags content
// @Produce json
// @Param type path string true "dyslexia, dysgraphia or dyscalculia"
// @Success 200 {object} dto.DisabilityContentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /disability/{type} [get]
func (h *ContentHandler) GetContent(c *fiber.Ctx) error {
	resp, err := h.content.Get(c.Context(), c.Params("type"))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateContent godoc
// @Summary Replace the learning material of a disability
// @Tags admin
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param type path string true "Disability"
// @Param content body dto.DisabilityContentRequest true "Content"
// @Success 200 {object} dto.DisabilityContentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /admin/disability/{type} [put]
func (h *ContentHandler) UpdateContent(c *fiber.Ctx) error {
	var req dto.DisabilityContentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.content.Update(c.Context(), c.Params("type"), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Chat godoc
// @Summary Ask the learning assistant
// @Tags content
// @Accept json
// @Produce json
// @Param conversation body dto.ChatRequest true "Conversation"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 503 {object} middleware.ErrorResponse "Assistant unavailable"
// @Router /chat [post]
func (h *ContentHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	resp, err := h.chat.Reply(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
