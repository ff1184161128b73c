package sessions

import (
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/features"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

type SessionsPlugin struct{}

func New() *SessionsPlugin {
	return &SessionsPlugin{}
}

func (p *SessionsPlugin) ID() string { return "sessions" }

// Models repeats the chat tables so either plugin can be mounted alone.
func (p *SessionsPlugin) Models() []interface{} {
	return []interface{}{
		&models.Session{},
		&models.Message{},
	}
}

func (p *SessionsPlugin) RegisterRoutes(router fiber.Router, deps *features.Deps) {
	handler := NewSessionHandler(NewSessionService(deps.DB))

	router.Post("/sessions", handler.Create)
	router.Get("/sessions", handler.List)
	router.Get("/sessions/:id/messages", handler.Messages)
}
