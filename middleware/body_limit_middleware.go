package middleware

import (
	"fmt"

	apimodels "blytzwork-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// WithBodyLimit answers 413 when the declared Content-Length is above limit bytes.
func WithBodyLimit(limit int64) fiber.Handler {
	tooLarge := apimodels.NewError(fmt.Sprintf("request body exceeds %d bytes", limit))
	return func(c *fiber.Ctx) error {
		if size := c.Request().Header.ContentLength(); size > 0 && int64(size) > limit {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(tooLarge)
		}
		return c.Next()
	}
}
