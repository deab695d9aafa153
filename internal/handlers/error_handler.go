package handlers

import (
	"errors"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// NewErrorHandler maps errors escaping the handlers to JSON responses.
// Storage and other unexpected failures become 500; development builds
// include a stack trace in the body, production builds do not.
func NewErrorHandler(env string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}
		body := fiber.Map{"message": err.Error()}
		if code == fiber.StatusInternalServerError && env == "development" {
			body["stack"] = string(debug.Stack())
		}
		return c.Status(code).JSON(body)
	}
}
