package routes

import (
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/hearing-tracker/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	Hearings *handlers.HearingHandler
	Updates  *handlers.UpdateHandler
	Stats    *handlers.StatsHandler
}

// Setup mounts the API under /api. limiterStorage may be nil for in-memory
// rate limiting.
func Setup(app *fiber.App, cfg *config.Config, h Handlers, limiterStorage fiber.Storage) {
	api := app.Group("/api")

	// General API rate limiter, per IP
	api.Use(middleware.RateLimit("api", cfg.RateLimitMax, limiterStorage))

	api.Get("/health", h.Health.Check)

	// Auth, public. Stricter limit for credential endpoints.
	auth := api.Group("/auth")
	authLimit := middleware.RateLimit("auth", 10, limiterStorage)
	auth.Post("/register", authLimit, h.Auth.Register)
	auth.Post("/login", authLimit, h.Auth.Login)
	auth.Post("/refresh", authLimit, h.Auth.Refresh)

	protected := middleware.JWTProtected(cfg)
	auth.Post("/logout", protected, h.Auth.Logout)
	auth.Get("/me", protected, h.Auth.Me)
	auth.Delete("/account", protected, h.Auth.DeleteAccount)

	// Static segments are registered before /:id so they are not parsed as ids.
	hearings := api.Group("/hearings", protected)
	hearings.Get("/my-hearings", h.Hearings.MyHearings)
	hearings.Get("/", h.Hearings.List)
	hearings.Post("/", h.Hearings.Create)
	hearings.Get("/:id", h.Hearings.Get)
	hearings.Put("/:id", h.Hearings.Replace)
	hearings.Patch("/:id", h.Hearings.Patch)
	hearings.Delete("/:id", h.Hearings.Delete)
	hearings.Get("/:id/updates", h.Hearings.Updates)
	hearings.Post("/:id/change-status", h.Hearings.ChangeStatus)

	updates := api.Group("/updates", protected)
	updates.Get("/hearing-updates", h.Updates.HearingUpdates)
	updates.Get("/my-updates", h.Updates.MyUpdates)
	updates.Get("/", h.Updates.List)
	updates.Post("/", h.Updates.Create)
	updates.Get("/:id", h.Updates.Get)
	updates.Put("/:id", h.Updates.Replace)
	updates.Patch("/:id", h.Updates.Patch)
	updates.Delete("/:id", h.Updates.Delete)
	updates.Post("/:id/mark-important", h.Updates.MarkImportant)
	updates.Post("/:id/visibility", h.Updates.Visibility)

	api.Get("/stats", protected, h.Stats.Stats)
}
