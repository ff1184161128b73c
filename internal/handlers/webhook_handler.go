package handlers

import (
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	subscriptionService *services.SubscriptionService
	expectedAuth        string
}

func NewWebhookHandler(subscriptionService *services.SubscriptionService, expectedAuth string) *WebhookHandler {
	return &WebhookHandler{
		subscriptionService: subscriptionService,
		expectedAuth:        expectedAuth,
	}
}

// HandleRevenueCat authorizes by the shared secret configured in the RevenueCat dashboard.
func (h *WebhookHandler) HandleRevenueCat(c *fiber.Ctx) error {
	if h.expectedAuth == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: "Webhooks not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.expectedAuth)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "Unauthorized",
		})
	}

	var webhook dto.RevenueCatWebhook
	if err := c.BodyParser(&webhook); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid webhook payload",
		})
	}

	if err := h.subscriptionService.HandleWebhookEvent(c.UserContext(), &webhook.Event); err != nil {
		if errors.Is(err, services.ErrInvalidAppUserID) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "Invalid app_user_id",
			})
		}
		slog.Error("webhook processing failed", "action", "webhook.revenuecat", "event_type", webhook.Event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event_type", webhook.Event.Type, "event_id", webhook.Event.ID)
	return c.JSON(fiber.Map{"received": true})
}
