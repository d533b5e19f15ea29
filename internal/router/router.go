package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/chronidx/chronidx/internal/config"
	"github.com/chronidx/chronidx/internal/events"
	"github.com/chronidx/chronidx/internal/handlers"
	"github.com/chronidx/chronidx/internal/logging"
	"github.com/chronidx/chronidx/internal/middleware"
	"github.com/chronidx/chronidx/internal/store"
	"github.com/chronidx/chronidx/internal/utils"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, st store.Store, pub events.Publisher, cfg config.Config) (*handlers.Handler, error) {
	h, err := handlers.New(logger, st, pub, cfg)
	if err != nil {
		return nil, err
	}

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddlewareWithConfig(logger, logging.DefaultMiddlewareConfig()))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Document Routes
	v1.Post("/collections/:collection/documents", h.WriteDocument)
	v1.Get("/collections/:collection/documents/:id", h.GetDocument)
	v1.Delete("/collections/:collection/documents/:id", h.DeleteDocument)

	// Query Routes
	v1.Get("/collections/:collection/query", h.QueryRange)
	v1.Get("/collections/:collection/selectors", h.Selectors)
	v1.Get("/collections/:collection/indices", h.Indices)

	// 404 handler
	app.Use(h.NotFound)

	return h, nil
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, st store.Store, pub events.Publisher, cfg config.Config) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:               "ChronIdx",
		DisableStartupMessage: true,
		ReadTimeout:           utils.DefaultRequestTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	if _, err := Setup(app, logger, st, pub, cfg); err != nil {
		return nil, err
	}
	return app, nil
}
