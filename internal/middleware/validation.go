package middleware

import (
	"dysscreen/internal/dto"
	"dysscreen/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	paginationKey  = "validated_pagination"
	limitKey       = "validated_limit"
	forceRetakeKey = "validated_force_retake"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidatePagination validates the limit and offset query parameters.
func (vm *ValidationMiddleware) ValidatePagination() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, errors := vm.validator.ValidatePagination(c.Query("limit"), c.Query("offset"))
		if len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}
		c.Locals(paginationKey, page)
		return c.Next()
	}
}

// ValidateLimit validates an optional top-N limit query parameter.
func (vm *ValidationMiddleware) ValidateLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, errors := vm.validator.ValidateLimit(c.Query("limit"), max)
		if len(errors) > 0 {
			return errors
		}
		c.Locals(limitKey, limit)
		return c.Next()
	}
}

// ValidateForceRetake validates the force_retake query flag.
func (vm *ValidationMiddleware) ValidateForceRetake() fiber.Handler {
	return func(c *fiber.Ctx) error {
		force, errors := vm.validator.ValidateBool("force_retake", c.Query("force_retake"))
		if len(errors) > 0 {
			return errors
		}
		c.Locals(forceRetakeKey, force)
		return c.Next()
	}
}

// Pagination returns the page stored by ValidatePagination.
func Pagination(c *fiber.Ctx) dto.Pagination {
	page, ok := c.Locals(paginationKey).(dto.Pagination)
	if !ok {
		return dto.Pagination{Limit: validation.DefaultPageLimit}
	}
	return page
}

// Limit returns the value stored by ValidateLimit, 0 when absent.
func Limit(c *fiber.Ctx) int {
	limit, _ := c.Locals(limitKey).(int)
	return limit
}

func ForceRetake(c *fiber.Ctx) bool {
	force, _ := c.Locals(forceRetakeKey).(bool)
	return force
}
