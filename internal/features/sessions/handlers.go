package sessions

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Service is implemented by *SessionService.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID) (*models.Session, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	Messages(ctx context.Context, userID, sessionID uuid.UUID) ([]models.Message, error)
}

type SessionHandler struct {
	service Service
}

func NewSessionHandler(service Service) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Create(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	session, err := h.service.Create(c.UserContext(), userID)
	if err != nil {
		slog.Error("session create failed", "action", "sessions.create", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to create session"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateSessionResponse{ID: session.ID.String()})
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	list, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		slog.Error("session list failed", "action", "sessions.list", "user_id", userID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to list sessions"})
	}

	return c.JSON(fiber.Map{"sessions": list})
}

func (h *SessionHandler) Messages(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid session ID"})
	}

	msgs, err := h.service.Messages(c.UserContext(), userID, sessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "Session not found"})
	case errors.Is(err, ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Forbidden: session does not belong to user"})
	case err != nil:
		slog.Error("message list failed", "action", "sessions.messages", "user_id", userID.String(), "session_id", sessionID.String(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Failed to load messages"})
	}

	return c.JSON(fiber.Map{"messages": msgs})
}
