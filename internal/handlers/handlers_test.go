package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTiers map[uuid.UUID]string

func (m memTiers) SetTier(_ context.Context, userID uuid.UUID, tier string) (bool, error) {
	m[userID] = tier
	return true, nil
}

func newWebhookApp(tiers memTiers, secret string) *fiber.App {
	app := fiber.New()
	h := NewWebhookHandler(services.NewSubscriptionService(tiers), secret)
	app.Post("/webhooks/revenuecat", h.HandleRevenueCat)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, auth, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/webhooks/revenuecat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRevenueCatWebhook(t *testing.T) {
	user := uuid.New()
	tiers := memTiers{}
	app := newWebhookApp(tiers, "Bearer hook-secret")
	body := `{"api_version":"1.0","event":{"type":"INITIAL_PURCHASE","app_user_id":"` + user.String() + `"}}`

	assert.Equal(t, fiber.StatusUnauthorized, postWebhook(t, app, "Bearer wrong", body))
	assert.Empty(t, tiers)

	assert.Equal(t, fiber.StatusOK, postWebhook(t, app, "Bearer hook-secret", body))
	assert.Equal(t, models.TierVIP, tiers[user])

	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, "Bearer hook-secret",
		`{"event":{"type":"RENEWAL","app_user_id":"anonymous"}}`))
	assert.Equal(t, fiber.StatusBadRequest, postWebhook(t, app, "Bearer hook-secret", `not json`))
}

func TestRevenueCatWebhookNotConfigured(t *testing.T) {
	app := newWebhookApp(memTiers{}, "")
	assert.Equal(t, fiber.StatusNotFound, postWebhook(t, app, "", `{}`))
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name string
		ping func(context.Context) error
		db   string
	}{
		{"healthy", func(context.Context) error { return nil }, "ok"},
		{"db down", func(context.Context) error { return errors.New("refused") }, "unhealthy: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/health", NewHealthHandler(tt.ping).Check)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusOK, resp.StatusCode)

			var body dto.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, "ok", body.Status)
			assert.Equal(t, tt.db, body.DB)
		})
	}
}
