package handlers

import (
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/services"
	"github.com/basetopia/basetopia-backend/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit", services.DefaultLimit)
	if err != nil {
		return respondError(c, err)
	}
	threshold, err := queryInt(c, "threshold", services.DefaultThreshold)
	if err != nil {
		return respondError(c, err)
	}

	results, err := h.search.Search(c.UserContext(), c.Query("query"), limit, threshold)
	if err != nil {
		return respondError(c, err)
	}
	metrics.RecordSearch(len(results))
	return c.JSON(dto.NewSearchResponse(results))
}
