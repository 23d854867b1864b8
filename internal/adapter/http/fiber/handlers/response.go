// Package handlers exposes the guest, voice and website services over HTTP.
package handlers

import "github.com/gofiber/fiber/v2"

func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
