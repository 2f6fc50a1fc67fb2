package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/basetopia/basetopia-backend/internal/agent"
	"github.com/basetopia/basetopia-backend/internal/catalog"
	"github.com/basetopia/basetopia-backend/internal/config"
	"github.com/basetopia/basetopia-backend/internal/database"
	"github.com/basetopia/basetopia-backend/internal/handlers"
	"github.com/basetopia/basetopia-backend/internal/identity"
	"github.com/basetopia/basetopia-backend/internal/llm"
	"github.com/basetopia/basetopia-backend/internal/logging"
	"github.com/basetopia/basetopia-backend/internal/middleware"
	"github.com/basetopia/basetopia-backend/internal/routes"
	"github.com/basetopia/basetopia-backend/internal/services"
	"github.com/basetopia/basetopia-backend/internal/store"
	"github.com/basetopia/basetopia-backend/internal/translate"
	"github.com/basetopia/basetopia-backend/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	st := store.New(db)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := st.EnsureCounter(ctx, store.PostsCounter); err != nil {
		slog.Error("failed to initialise posts counter", "error", err)
		os.Exit(1)
	}

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(db)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, dbLogHandler)))

	// Log cleanup
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	verifier, err := identity.New(ctx, identity.Settings{
		ProjectID: cfg.FirebaseProjectID,
		JWKSURL:   cfg.AuthJWKSURL,
		DevSecret: cfg.AuthDevSecret,
	})
	if err != nil {
		slog.Error("identity verifier init failed", "error", err)
		os.Exit(1)
	}

	var model llm.Model
	if cfg.GeminiAPIKey != "" {
		model, err = llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("gemini client init failed", "error", err)
			os.Exit(1)
		}
	}

	backend, closeTranslator, err := newTranslator(ctx, cfg, model)
	if err != nil {
		slog.Error("translator init failed", "translator", cfg.Translator, "error", err)
		os.Exit(1)
	}
	defer closeTranslator()
	translator := translate.Chunked{
		Next: translate.Observed{
			Next: backend,
			Observe: func(err error, elapsed time.Duration) {
				metrics.RecordTranslation(cfg.Translator, err, float64(elapsed.Microseconds())/1000)
			},
		},
		MaxChars: translate.MaxChunkChars,
	}

	// Services
	reader := catalog.NewReader(st, cfg.CatalogCacheTTL)
	postService := services.NewPostService(st, cfg.StoreTimeout)

	h := routes.Handlers{
		Health:    handlers.NewHealthHandler(db, model != nil),
		Auth:      handlers.NewAuthHandler(verifier),
		Users:     handlers.NewUserHandler(services.NewUserService(st, cfg.StoreTimeout)),
		Posts:     handlers.NewPostHandler(postService, services.NewFeedService(st, cfg.StoreTimeout)),
		Search:    handlers.NewSearchHandler(services.NewSearchService(reader)),
		Catalog:   handlers.NewCatalogHandler(services.NewCatalogService(st, cfg.StoreTimeout)),
		Translate: handlers.NewTranslateHandler(translator, cfg.AITimeout),
	}
	if model != nil {
		pipeline := agent.NewPipeline(agent.New(model, st, reader), agent.NewTagger(model, reader), translator, cfg.Locales())
		h.Agent = handlers.NewAgentHandler(pipeline, postService, cfg.AITimeout)
	} else {
		slog.Warn("gemini_api_key not set, agent routes disabled")
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecureHeaders())
	app.Use(middleware.Metrics())

	// Routes
	routes.Setup(app, verifier, h, routes.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Metrics:            adaptor.HTTPHandler(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "db_driver", cfg.DBDriver, "translator", cfg.Translator)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	verifier.Close()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	// Close database connections
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// newTranslator builds the configured backend. The returned func releases it.
func newTranslator(ctx context.Context, cfg *config.Config, model llm.Model) (translate.Translator, func(), error) {
	switch cfg.Translator {
	case config.TranslatorCloud:
		c, err := translate.NewCloud(ctx, cfg.FirebaseProjectID, cfg.TranslateLocation, cfg.GoogleCredentials)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {
			if err := c.Close(); err != nil {
				slog.Error("translation client close failed", "error", err)
			}
		}, nil
	case config.TranslatorGemini:
		return translate.Gemini{Model: model}, func() {}, nil
	default:
		return translate.Noop{}, func() {}, nil
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
