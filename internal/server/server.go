// Package server assembles the Fiber application: edge middleware, the central error
// handler and the versioned catalog routes.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/response"
	"catalog/internal/services"
	"catalog/internal/validation"
)

// Deps are the process-wide resources the application is built from.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Log    *zap.Logger
	// Events is optional; nil disables event publishing.
	Events services.EventPublisher
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(d Deps) *fiber.App {
	cfg := d.Config
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		ErrorHandler:          middleware.ErrorHandler(log, cfg.IsProduction()),
		BodyLimit:             cfg.HTTP.BodyLimit,
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(*fiber.Ctx) bool { return cfg.AppEnv == config.EnvTest },
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.HTTP.RateLimitMax,
		Expiration: cfg.HTTP.RateLimitWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return response.Fail(c, fiber.StatusTooManyRequests, "Too many requests, please try again later", nil)
		},
	}))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return response.OK(c, "Service is healthy", fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// --- Repositories, services, handlers ---
	productRepo := repositories.NewGORMProductRepository(d.DB)
	categoryRepo := repositories.NewGORMCategoryRepository(d.DB)

	productService := services.NewProductService(productRepo, d.Events, log)
	categoryService := services.NewCategoryService(categoryRepo, d.Events, log)
	authService := services.NewAuthService(cfg.JWT.Secret)

	v := validation.New()
	categoryHandler := handlers.NewCategoryHandler(categoryService, v)
	productHandler := handlers.NewProductHandler(productService, categoryService, v, log)

	// --- API Routes ---
	apiV1 := app.Group("/api/v1", middleware.WriteGuard(authService))
	categoryHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	app.Use(middleware.NotFound)

	if !authService.Enabled() {
		log.Warn("JWT_SECRET is not set, write endpoints are unauthenticated")
	}
	return app
}
