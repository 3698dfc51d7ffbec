package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "user_id"
	localEmail  = "email"
)

// Middleware guards protected routes. It expects an
// "Authorization: Bearer <token>" header, verifies the signature and
// stashes the caller identity in c.Locals for downstream handlers.
func Middleware(issuer *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "No token, authorization denied")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "Token is not valid")
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Token is not valid")
		}

		c.Locals(localUserID, claims.UserID)
		c.Locals(localEmail, claims.Email)
		return c.Next()
	}
}

// CallerID returns the authenticated user id set by Middleware.
func CallerID(c *fiber.Ctx) (string, error) {
	if uid, ok := c.Locals(localUserID).(string); ok && strings.TrimSpace(uid) != "" {
		return uid, nil
	}
	return "", errors.New("user id missing")
}
