package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"signage/internal/service"
)

// Options carries the transport settings that are not part of the playlist service.
type Options struct {
	// SlideshowFile overrides the embedded playback page when set.
	SlideshowFile  string
	MaxUploadBytes int64
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, svc service.PlaylistService, opts Options) {
	app.Get("/", Slideshow(opts.SlideshowFile))
	app.Get("/admin", AdminPage(svc, opts.MaxUploadBytes))

	app.Get("/files", ListPlaybackFiles(svc))
	app.Get("/media/*", ServeMedia(svc))
	app.Post("/upload", UploadMedia(svc))
	app.Post("/delete_file", DeleteMedia(svc))

	app.Get("/urls", ListURLs(svc))
	app.Post("/add_url", AddURL(svc))
	app.Post("/delete_url", DeleteURL(svc))

	app.Get("/health", HealthCheck(svc))
	// Backward-compatible simple liveness probe
	app.Get("/healthz", LivenessProbe())
}

// HealthCheck reports whether both stores can be read.
//
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(svc service.PlaylistService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := svc.Check(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "storage unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// redirectAdmin sends form posts back to the admin page.
func redirectAdmin(c *fiber.Ctx) error {
	return c.Redirect("/admin", fiber.StatusSeeOther)
}
