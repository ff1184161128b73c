package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Setup(
	app *fiber.App,
	deps *features.Deps,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	plugins []features.Plugin,
) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Webhooks: shared-secret auth, no JWT
	webhooks := api.Group("/webhooks")
	webhooks.Post("/revenuecat", webhookHandler.HandleRevenueCat)

	protected := api.Group("/p", middleware.JWTProtected(deps.Cfg))

	// Chat turns call the completion API, so they get a tighter per-user budget.
	protected.Use("/chat", limiter.New(limiter.Config{
		Max:               20,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, err := identity.GetUserID(c); err == nil {
				return "chat:" + userID.String()
			}
			return "chat:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "Too many messages at once. Please slow down a little.",
			})
		},
	}))

	for _, p := range plugins {
		p.RegisterRoutes(protected, deps)
	}
}
