// utils/http.go - JSON response helpers for Fiber handlers
package utils

import (
	"github.com/gofiber/fiber/v2"
)

// JSONError sends a JSON error response
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// JSONSuccess sends a JSON success response with data merged into the body
func JSONSuccess(c *fiber.Ctx, data fiber.Map) error {
	response := fiber.Map{
		"success": true,
	}
	for k, v := range data {
		response[k] = v
	}
	return c.JSON(response)
}

// ParamInt reads a positive integer route parameter
func ParamInt(c *fiber.Ctx, key string) (int, error) {
	n, err := c.ParamsInt(key)
	if err != nil || n <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+key)
	}
	return n, nil
}
