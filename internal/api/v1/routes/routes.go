// Package routes wires the v1 API endpoints to their handlers.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ventureforge/forge/internal/api/v1/handlers"
	"github.com/ventureforge/forge/internal/api/v1/middleware"
	"github.com/ventureforge/forge/internal/services"
)

// Register registers the v1 routes on the app
func Register(app *fiber.App, jobService *services.Job, userService *services.User) {
	v1 := app.Group("/api/v1")

	userHandler := handlers.NewUserHandler(userService)
	jobHandler := handlers.NewJobHandler(jobService)

	auth := v1.Group("/auth")
	auth.Post("/register", userHandler.Register)
	auth.Post("/login", userHandler.Login)

	authed := v1.Group("/", middleware.Auth(userService))

	jobs := authed.Group("/jobs")
	jobs.Get("/", jobHandler.ListJobs)
	jobs.Post("/", jobHandler.CreateJob)
	jobs.Get("/:id", jobHandler.GetJob)
	jobs.Post("/:id/run", jobHandler.RunJob)
	jobs.Get("/:id/results", jobHandler.GetJobResults)

	authed.Get("/dashboard/stats", jobHandler.DashboardStats)
}
