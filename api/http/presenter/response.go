package presenter

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the error envelope clients inspect. The field name is
// part of the wire contract: callers check the "error" key even on 200s.
type ErrorResponse struct {
	Error string `json:"error"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Error: message})
}

// SoftError reports a failure inside a 200 response. Legacy clients treat
// any non-2xx on the matching endpoints as a transport fault and only
// read the "error" key on success bodies.
func SoftError(c *fiber.Ctx, message string) error {
	return JSON(c, fiber.StatusOK, ErrorResponse{Error: message})
}
