package handlers

import (
	"time"

	"github.com/basetopia/basetopia-backend/internal/agent"
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/identity"
	"github.com/basetopia/basetopia-backend/internal/services"
	"github.com/basetopia/basetopia-backend/pkg/metrics"
	"github.com/gofiber/fiber/v2"
)

type AgentHandler struct {
	pipeline *agent.Pipeline
	posts    *services.PostService
	timeout  time.Duration
}

func NewAgentHandler(pipeline *agent.Pipeline, posts *services.PostService, timeout time.Duration) *AgentHandler {
	return &AgentHandler{pipeline: pipeline, posts: posts, timeout: timeout}
}

// Query answers a highlight question in every supported language.
func (h *AgentHandler) Query(c *fiber.Ctx) error {
	var req dto.AgentQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()
	out, err := h.pipeline.Query(ctx, req.UserQuery, req.InputLanguage)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AgentQueryResponse{FinalResponse: out})
}

// Post generates, tags and localizes a highlight post and stores it as the caller's.
func (h *AgentHandler) Post(c *fiber.Ctx) error {
	id, err := identity.FromContext(c)
	if err != nil {
		return respondError(c, err)
	}
	var req dto.AgentPostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, errInvalidBody)
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()
	draft, err := h.pipeline.Draft(ctx, req.UserQuery)
	if err != nil {
		return respondError(c, err)
	}

	post, err := h.posts.Create(c.UserContext(), id.Email, services.PostInput{
		PlayerTags:       draft.PlayerTags,
		TeamTags:         draft.TeamTags,
		LocalizedContent: draft.LocalizedContent,
	})
	if err != nil {
		return respondError(c, err)
	}
	metrics.RecordPostCreated()
	return c.Status(fiber.StatusCreated).JSON(dto.NewPostResponse(post))
}
