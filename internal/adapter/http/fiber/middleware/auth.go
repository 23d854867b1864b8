package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/seu-repo/vox-site/internal/ports"
)

// LocalGuestID is the Locals key holding the user id of a verified guest token.
const LocalGuestID = "guest_id"

// GuestToken verifies an optional Bearer guest token. Requests without an
// Authorization header pass through untouched; a malformed or invalid token
// is rejected.
func GuestToken(tokens ports.GuestTokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
		}

		userID, err := tokens.ValidateGuestToken(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		c.Locals(LocalGuestID, userID)
		return c.Next()
	}
}

// GuestID returns the user id set by GuestToken, or "" when no token was sent.
func GuestID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalGuestID).(string)
	return id
}
