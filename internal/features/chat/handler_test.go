package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

type stubProcessor struct {
	err  error
	got  Turn
	hits int
}

func (s *stubProcessor) ProcessTurn(_ context.Context, turn Turn) (*Outcome, error) {
	s.hits++
	s.got = turn
	if s.err != nil {
		return nil, s.err
	}
	return &Outcome{AssistantText: "secret reply"}, nil
}

func newChatApp(p TurnProcessor) *fiber.App {
	app := fiber.New()
	app.Post("/chat", middleware.JWTProtected(&config.Config{JWTSecret: testSecret}), NewHandler(p).Chat)
	return app
}

func bearer(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           userID.String(),
		"email":         "jess@example.com",
		"user_metadata": map[string]interface{}{"name": "Jess Rivera"},
		"exp":           time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + s
}

func postChat(t *testing.T, app *fiber.App, auth, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func validBody() string {
	return `{"sessionId":"` + uuid.NewString() + `","message":"hello"}`
}

func TestChatSuccessReturnsOnlySuccessFlag(t *testing.T) {
	proc := &stubProcessor{}
	userID := uuid.New()

	status, body := postChat(t, newChatApp(proc), bearer(t, userID), validBody())

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]interface{}{"success": true}, body)
	assert.Equal(t, userID, proc.got.UserID)
	assert.Equal(t, "Jess Rivera", proc.got.DisplayName)
	assert.Equal(t, "hello", proc.got.Request.Message)
}

func TestChatRequiresBearer(t *testing.T) {
	proc := &stubProcessor{}
	status, body := postChat(t, newChatApp(proc), "", validBody())

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body["error"], "Unauthorized")
	assert.Zero(t, proc.hits)
}

func TestChatValidationError(t *testing.T) {
	proc := &stubProcessor{}
	status, body := postChat(t, newChatApp(proc), bearer(t, uuid.New()), `{"sessionId":"nope","message":""}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid input", body["error"])
	details, ok := body["details"].([]interface{})
	require.True(t, ok)
	assert.Len(t, details, 2)
	assert.Zero(t, proc.hits)
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		prefix string
	}{
		{"unauthenticated", ErrUnauthenticated, fiber.StatusUnauthorized, "Unauthorized"},
		{"forbidden", ErrForbidden, fiber.StatusForbidden, "Forbidden"},
		{"trial expired", ErrTrialExpired, fiber.StatusForbidden, "Trial period expired"},
		{"quota", ErrQuotaExceeded, fiber.StatusTooManyRequests, "Daily message limit reached"},
		{"model busy", ErrModelRateLimited, fiber.StatusTooManyRequests, "Bride Buddy is in high demand"},
		{"model payment", ErrModelPaymentRequired, fiber.StatusPaymentRequired, "The AI service needs attention"},
		{"model error", errors.Join(ErrModelInvocation, errors.New("502")), fiber.StatusInternalServerError, "Something went wrong"},
		{"internal", internalErr("load vendors", errors.New("timeout")), fiber.StatusInternalServerError, "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := postChat(t, newChatApp(&stubProcessor{err: tt.err}), bearer(t, uuid.New()), validBody())

			assert.Equal(t, tt.status, status)
			assert.True(t, strings.HasPrefix(body["error"].(string), tt.prefix), body["error"])
			if tt.status == fiber.StatusInternalServerError {
				assert.Equal(t, tt.err.Error(), body["details"])
			}
		})
	}
}

func TestChatServerErrorsLoggedOnce(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		name    string
		err     error
		records int
	}{
		{"internal", internalErr("load vendors", errors.New("timeout")), 0},
		{"model error", errors.Join(ErrModelInvocation, errors.New("502")), 0},
		{"unclassified", errors.New("connection reset"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))

			status, _ := postChat(t, newChatApp(&stubProcessor{err: tt.err}), bearer(t, uuid.New()), validBody())

			assert.Equal(t, fiber.StatusInternalServerError, status)
			assert.Equal(t, tt.records, strings.Count(buf.String(), `"msg":"chat request failed"`))
		})
	}
}
