package jwt

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys populated by the middleware for downstream handlers.
const (
	LocalUserID = "userId"
	LocalEmail  = "email"
)

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT
// (HS256) using gen. On success the token subject and email are stored in
// request locals. Every rejection carries a WWW-Authenticate challenge.
func NewAuthMiddleware(gen *Generator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "missing Authorization header")
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		var tokenStr string
		if strings.Contains(authHeader, " ") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			} else {
				tokenStr = strings.TrimSpace(authHeader)
			}
		} else {
			tokenStr = strings.TrimSpace(authHeader)
		}
		if tokenStr == "" {
			return unauthorized(c, "empty token")
		}
		claims, err := gen.Parse(tokenStr)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				return unauthorized(c, "token expired")
			case errors.Is(err, ErrTokenSignature):
				return unauthorized(c, "invalid token signature")
			default:
				return unauthorized(c, "malformed token")
			}
		}
		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalEmail, claims.Email)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": message})
}
