package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/notes-service/internal/api/http/handlers"
	"github.com/spec-kit/notes-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Notes          *handlers.NotesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)

	authGroup := app.Group("/auth")
	authGroup.Post("/token", cfg.Auth.IssueToken)
	authGroup.Post("/refresh", cfg.Auth.RefreshToken)

	notes := app.Group("/notes", cfg.AuthMiddleware.Handle)
	notes.Get("/", cfg.Notes.ListNotes)
	notes.Post("/", cfg.Notes.CreateNote)
	notes.Get("/:id", cfg.Notes.GetNote)
	notes.Patch("/:id", cfg.Notes.UpdateNote)
	notes.Delete("/:id", cfg.Notes.DeleteNote)
}
