package handlers

import (
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/identity"
	"github.com/basetopia/basetopia-backend/internal/models"
	"github.com/basetopia/basetopia-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	user, err := h.users.Create(c.UserContext(), id.UID, services.UserInput{
		Email:            req.Email,
		DisplayName:      req.DisplayName,
		Nationality:      req.Nationality,
		TeamsFollowing:   req.TeamsFollowing,
		PlayersFollowing: req.PlayersFollowing,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	return h.respond(c, func(uid string) (*models.User, error) {
		return h.users.Get(c.UserContext(), uid)
	})
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}
	return h.respond(c, func(uid string) (*models.User, error) {
		return h.users.Update(c.UserContext(), uid, services.UserPatch{
			DisplayName:      req.DisplayName,
			Nationality:      req.Nationality,
			TeamsFollowing:   req.TeamsFollowing,
			PlayersFollowing: req.PlayersFollowing,
		})
	})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	uid := identity.UID(c)
	if err := h.users.Delete(c.UserContext(), uid); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "User deleted"})
}

func (h *UserHandler) FollowTeam(c *fiber.Ctx) error {
	return h.respond(c, func(uid string) (*models.User, error) {
		return h.users.FollowTeam(c.UserContext(), uid, c.Params("id"))
	})
}

func (h *UserHandler) UnfollowTeam(c *fiber.Ctx) error {
	return h.respond(c, func(uid string) (*models.User, error) {
		return h.users.UnfollowTeam(c.UserContext(), uid, c.Params("id"))
	})
}

func (h *UserHandler) FollowPlayer(c *fiber.Ctx) error {
	return h.respond(c, func(uid string) (*models.User, error) {
		return h.users.FollowPlayer(c.UserContext(), uid, c.Params("id"))
	})
}

func (h *UserHandler) UnfollowPlayer(c *fiber.Ctx) error {
	return h.respond(c, func(uid string) (*models.User, error) {
		return h.users.UnfollowPlayer(c.UserContext(), uid, c.Params("id"))
	})
}

func (h *UserHandler) respond(c *fiber.Ctx, fn func(uid string) (*models.User, error)) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := fn(id.UID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewUserResponse(user))
}
