package routes

import (
	"time"

	"github.com/basetopia/basetopia-backend/internal/handlers"
	"github.com/basetopia/basetopia-backend/internal/identity"
	"github.com/basetopia/basetopia-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers bundles every route handler.
type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Posts     *handlers.PostHandler
	Search    *handlers.SearchHandler
	Catalog   *handlers.CatalogHandler
	Translate *handlers.TranslateHandler
	Agent     *handlers.AgentHandler
}

// Options tunes the route table.
type Options struct {
	RateLimitPerMinute int
	// Metrics serves the Prometheus exposition; nil disables /api/metrics.
	Metrics fiber.Handler
}

func Setup(app *fiber.App, verifier *identity.Verifier, h Handlers, opts Options) {
	api := app.Group("/api")

	// General API rate limit per IP
	if opts.RateLimitPerMinute > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:               opts.RateLimitPerMinute,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	api.Get("/health", h.Health.Check)
	if opts.Metrics != nil {
		api.Get("/metrics", opts.Metrics)
	}

	protected := middleware.Protected(verifier)

	// Auth
	api.Post("/verify-token", h.Auth.VerifyToken)
	api.Get("/protected", protected, h.Auth.Protected)

	// Users
	api.Post("/users", protected, h.Users.Create)
	me := api.Group("/users/me", protected)
	me.Get("/", h.Users.Me)
	me.Put("/", h.Users.Update)
	me.Delete("/", h.Users.Delete)
	me.Post("/teams/:id", h.Users.FollowTeam)
	me.Delete("/teams/:id", h.Users.UnfollowTeam)
	me.Post("/players/:id", h.Users.FollowPlayer)
	me.Delete("/players/:id", h.Users.UnfollowPlayer)

	// Search and catalog (public)
	api.Get("/search", h.Search.Search)
	api.Get("/players", h.Catalog.Players)
	api.Get("/players/:id", h.Catalog.Player)
	api.Get("/teams", h.Catalog.Teams)
	api.Get("/teams/:id", h.Catalog.Team)

	// Feeds
	api.Get("/posts/me", protected, h.Posts.MyPosts)
	api.Get("/posts/following/teams", protected, h.Posts.TeamFeed)
	api.Get("/posts/following/players", protected, h.Posts.PlayerFeed)

	// Posts
	api.Post("/posts", protected, h.Posts.Create)
	api.Put("/posts", protected, h.Posts.Update)
	api.Get("/posts/player/:tag", h.Posts.ByPlayer)
	api.Get("/posts/team/:tag", h.Posts.ByTeam)
	api.Get("/posts/:id", h.Posts.Get)

	// Translation
	api.Post("/translate", h.Translate.Translate)
	api.Post("/translate/dict", h.Translate.TranslateDict)

	// Agent, only when a model is configured
	if h.Agent != nil {
		ml := api.Group("/ml/agent")
		ml.Post("/query", h.Agent.Query)
		ml.Post("/post", protected, h.Agent.Post)
	}
}
