package identity

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultDisplayName is used when the token carries neither a name nor an email.
const DefaultDisplayName = "Bride"

var ErrNoToken = errors.New("invalid token in context")

func claimsFrom(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return uuid.Nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// GetDisplayName reads the provider's user metadata for a name, falling back to the
// local part of the email.
func GetDisplayName(c *fiber.Ctx) string {
	claims, err := claimsFrom(c)
	if err != nil {
		return DefaultDisplayName
	}
	return DisplayNameFromClaims(claims)
}

func DisplayNameFromClaims(claims jwt.MapClaims) string {
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		for _, key := range []string{"name", "full_name"} {
			if v, ok := meta[key].(string); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	if email, ok := claims["email"].(string); ok {
		if local, _, found := strings.Cut(email, "@"); found && local != "" {
			return local
		}
	}
	return DefaultDisplayName
}
