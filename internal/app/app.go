// Package app assembles the fiber application.
package app

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ventureforge/forge/internal/api/v1/middleware"
	"github.com/ventureforge/forge/internal/api/v1/routes"
	"github.com/ventureforge/forge/internal/services"
)

// New builds the fiber app with the v1 routes registered
func New(jobService *services.Job, userService *services.User) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(middleware.Logger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	routes.Register(app, jobService, userService)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"slug":  "error",
		"error": err.Error(),
	})
}
