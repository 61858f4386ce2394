package middleware

import (
	"wiki-quiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(v *validation.Validator) *ValidationMiddleware {
	if v == nil {
		v = validation.NewValidator()
	}
	return &ValidationMiddleware{validator: v}
}

// ValidateQuizID rejects requests whose :id path parameter is not a quiz ID.
func (vm *ValidationMiddleware) ValidateQuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if err := vm.validator.QuizID(id); err != nil {
			return err // handled by ErrorHandler
		}
		c.Locals("validated_quiz_id", id)
		return c.Next()
	}
}
