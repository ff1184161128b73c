package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/identity"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// TurnProcessor is implemented by *Processor.
type TurnProcessor interface {
	ProcessTurn(ctx context.Context, turn Turn) (*Outcome, error)
}

type Handler struct {
	processor TurnProcessor
}

func NewHandler(processor TurnProcessor) *Handler {
	return &Handler{processor: processor}
}

// Chat runs one turn. The reply itself is read back through the sessions messages endpoint.
func (h *Handler) Chat(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "Unauthorized: invalid or expired token",
		})
	}

	req, err := ParseBody(c.Body())
	if err != nil {
		return h.fail(c, err)
	}

	_, err = h.processor.ProcessTurn(c.UserContext(), Turn{
		UserID:      userID,
		DisplayName: identity.GetDisplayName(c),
		Request:     req,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid input", Details: verr.Issues,
		})
	case errors.Is(err, ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "Unauthorized: invalid or expired token",
		})
	case errors.Is(err, ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: "Forbidden: session does not belong to user",
		})
	case errors.Is(err, ErrTrialExpired):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: "Trial period expired. Upgrade to VIP to continue chatting.",
		})
	case errors.Is(err, ErrQuotaExceeded):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error: "Daily message limit reached. Upgrade to VIP for unlimited messages.",
		})
	case errors.Is(err, ErrModelRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Error: "Bride Buddy is in high demand right now. Please try again in a moment.",
		})
	case errors.Is(err, ErrModelPaymentRequired):
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{
			Error: "The AI service needs attention. Please try again later.",
		})
	}

	if !loggedByProcessor(err) {
		slog.Error("chat request failed",
			"action", "chat.turn",
			"request_id", requestID(c),
			"path", c.Path(),
			"error", err,
		)
	}
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetTag("action", "chat.turn")
			hub.CaptureException(err)
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:   "Something went wrong while planning your reply. Please try again.",
		Details: err.Error(),
	})
}

// loggedByProcessor reports whether err already produced an ERROR record inside ProcessTurn.
func loggedByProcessor(err error) bool {
	return errors.Is(err, ErrInternal) || errors.Is(err, ErrModelInvocation)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
