package utils

import "github.com/gofiber/fiber/v2"

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a successful JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// Error sends the uniform error shape with the given status code.
func Error(c *fiber.Ctx, status int, summary string, details interface{}) error {
	return Respond(c, status, fiber.Map{
		"success": false,
		"error":   summary,
		"details": details,
	})
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, summary string, details interface{}) error {
	return Error(c, fiber.StatusBadRequest, summary, details)
}

// NotFound sends a JSON error response with status 404.
func NotFound(c *fiber.Ctx, summary string) error {
	return Error(c, fiber.StatusNotFound, summary, nil)
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, summary string) error {
	return Error(c, fiber.StatusInternalServerError, summary, nil)
}
