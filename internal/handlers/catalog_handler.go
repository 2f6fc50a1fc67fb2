package handlers

import (
	"github.com/basetopia/basetopia-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalog *services.CatalogService
}

func NewCatalogHandler(catalog *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) Players(c *fiber.Ctx) error {
	players, err := h.catalog.Players(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(players)
}

func (h *CatalogHandler) Player(c *fiber.Ctx) error {
	player, err := h.catalog.Player(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(player)
}

func (h *CatalogHandler) Teams(c *fiber.Ctx) error {
	teams, err := h.catalog.Teams(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(teams)
}

func (h *CatalogHandler) Team(c *fiber.Ctx) error {
	team, err := h.catalog.Team(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(team)
}
