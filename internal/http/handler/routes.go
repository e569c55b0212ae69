package handler

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"

	"patientdocs/internal/http/middleware"
	"patientdocs/internal/service"
)

// NewApp builds the Fiber app with the JSON error envelope and a request body
// limit sized for document uploads. The limit sits above the service's
// document cap so oversized files are rejected with the service error rather
// than cut off mid-transfer; the extra megabyte covers multipart framing.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
		BodyLimit:    service.MaxDocumentSize + (1 << 20),
	})
}

// HealthCheck reports readiness by pinging the database.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness endpoint.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Signup and login are public; all document routes sit behind the auth guard.
func RegisterRoutes(app *fiber.App, db *sql.DB, authSvc service.AuthService, docSvc service.DocumentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/signup", Signup(authSvc))
	app.Post("/login", Login(authSvc))

	docs := app.Group("/documents", middleware.Auth(authSvc))
	docs.Post("/", UploadDocument(docSvc))
	docs.Get("/", ListDocuments(docSvc))
	docs.Get("/:id/download", DownloadDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))
}
