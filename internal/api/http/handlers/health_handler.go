package handlers

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/notes-service/internal/config"
	"github.com/spec-kit/notes-service/internal/persistence"
)

// HealthHandler responds to liveness probes. The optional deep check reports
// dependency state without ever failing the overall request.
type HealthHandler struct {
	app      config.AppConfig
	postgres *persistence.Postgres
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(app config.AppConfig, postgres *persistence.Postgres) *HealthHandler {
	return &HealthHandler{app: app, postgres: postgres}
}

// Health GET /health. Always 200; ?checks=1 adds dependency and runtime
// metadata.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	payload := fiber.Map{"status": "ok"}

	switch c.Query("checks") {
	case "1", "true", "yes":
	default:
		return c.JSON(payload)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	dbState := "ok"
	if err := h.postgres.Ping(ctx); err != nil {
		dbState = "error: " + dbErrorKind(err)
	}

	hostname, _ := os.Hostname()
	payload["db"] = dbState
	payload["debug"] = h.app.Debug()
	payload["hostname"] = hostname
	payload["commit"] = h.app.CommitSHA
	payload["app"] = h.app.Name
	return c.JSON(payload)
}

// dbErrorKind reduces a probe failure to a short stable identifier instead
// of leaking Go type names onto the wire.
func dbErrorKind(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "unreachable"
}
