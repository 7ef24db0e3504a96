package auth

import (
	"github.com/gofiber/fiber/v2"
)

// ClaimsFromFiber finds the verified session claims the gate middleware
// stored on the request.
func ClaimsFromFiber(c *fiber.Ctx) (*SessionClaims, bool) {
	raw := c.Locals(ClaimsLocalKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(*SessionClaims)
	return claims, ok
}

// RequireSession is the API guard: handlers behind it can assume claims
// exist. Unlike the gate, which redirects page navigation, this returns
// the JSON 401 the original API routes used.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ClaimsFromFiber(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}
		return c.Next()
	}
}
