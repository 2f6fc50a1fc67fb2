package handlers

import (
	"context"
	"time"

	"github.com/basetopia/basetopia-backend/internal/database"
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// HealthHandler reports liveness of the database and whether the agent
// routes are mounted.
type HealthHandler struct {
	db           *gorm.DB
	agentEnabled bool
}

func NewHealthHandler(db *gorm.DB, agentEnabled bool) *HealthHandler {
	return &HealthHandler{db: db, agentEnabled: agentEnabled}
}

// Check answers 503 with status "degraded" when the database is unreachable.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
		Agent:     "disabled",
	}
	if h.agentEnabled {
		resp.Agent = "enabled"
	}

	status := fiber.StatusOK
	if err := database.Ping(ctx, h.db); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy"
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
