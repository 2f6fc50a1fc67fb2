package identity

import (
	"github.com/gofiber/fiber/v2"
)

const localsKey = "identity"

// Set stores the verified caller on the request.
func Set(c *fiber.Ctx, id *Identity) {
	c.Locals(localsKey, id)
}

// FromContext returns the caller stored by the auth middleware.
func FromContext(c *fiber.Ctx) (*Identity, error) {
	id, ok := c.Locals(localsKey).(*Identity)
	if !ok || id == nil {
		return nil, ErrTokenInvalid
	}
	return id, nil
}

// UID returns the caller's uid, or "" when unauthenticated.
func UID(c *fiber.Ctx) string {
	if id, err := FromContext(c); err == nil {
		return id.UID
	}
	return ""
}
