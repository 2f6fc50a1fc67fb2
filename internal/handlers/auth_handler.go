package handlers

import (
	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/identity"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	verifier *identity.Verifier
}

func NewAuthHandler(verifier *identity.Verifier) *AuthHandler {
	return &AuthHandler{verifier: verifier}
}

// VerifyToken checks an ID token sent in the body rather than the header.
func (h *AuthHandler) VerifyToken(c *fiber.Ctx) error {
	var req dto.VerifyTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}
	if req.IDToken == "" {
		return respondError(c, apperr.InvalidArgument("Token is required"))
	}

	id, err := h.verifier.Verify(c.UserContext(), req.IDToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.VerifyTokenResponse{
		UID:           id.UID,
		Email:         id.Email,
		EmailVerified: id.EmailVerified,
	})
}

func (h *AuthHandler) Protected(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ProtectedResponse{
		Message: "This is a protected route",
		User:    dto.ProtectedUser{UID: id.UID, Email: id.Email},
	})
}
