package middleware

import (
	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/identity"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected requires a valid bearer ID token and stores the caller's
// identity on the request.
func Protected(v *identity.Verifier) fiber.Handler {
	return jwtware.New(jwtware.Config{
		KeyFunc: v.Keyfunc,
		Claims:  &identity.Claims{},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, _ := c.Locals("user").(*jwt.Token)
			id, err := v.FromToken(token)
			if err != nil {
				return unauthorized(c, err)
			}
			identity.Set(c, id)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c, identity.MapError(err))
		},
	})
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    string(apperr.KindUnauthenticated),
		Message: apperr.MessageOf(err),
	})
}
