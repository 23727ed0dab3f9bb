package utils

import "github.com/gofiber/fiber/v2"

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// SendResponse writes the uniform API envelope every endpoint returns.
func SendResponse(c *fiber.Ctx, status int, success bool, data interface{}, message string) error {
	return c.Status(status).JSON(Envelope{
		Success: success,
		Data:    data,
		Message: message,
	})
}
