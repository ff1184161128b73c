package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/bridebuddy-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the identity provider's bearer token. HS256 with the shared
// secret by default; a JWKS URL switches to asymmetric verification.
func JWTProtected(cfg *config.Config) fiber.Handler {
	jwtCfg := jwtware.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			msg := "Unauthorized: invalid or expired token"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				msg = "Unauthorized: missing or malformed authorization header"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msg})
		},
	}
	if cfg.JWTJWKSURL != "" {
		jwtCfg.JWKSetURLs = []string{cfg.JWTJWKSURL}
	} else {
		jwtCfg.SigningKey = jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)}
	}
	return jwtware.New(jwtCfg)
}
