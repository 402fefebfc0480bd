package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/handlers"
	"github.com/cinelog/cinelog/internal/logging"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/resources"
	"github.com/cinelog/cinelog/internal/resources/favourites"
	"github.com/cinelog/cinelog/internal/resources/likes"
	"github.com/cinelog/cinelog/internal/resources/reviews"
	"github.com/cinelog/cinelog/internal/resources/watchlist"
	"github.com/cinelog/cinelog/internal/routes"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/cinelog/cinelog/internal/tmdb"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.TMDBAPIKey == "" {
		slog.Error("TMDB_API_KEY environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Migrate shared models
	if err := database.MigrateShared(); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// TMDB gateway
	gateway := tmdb.New(tmdb.Config{
		APIKey:       cfg.TMDBAPIKey,
		BaseURL:      cfg.TMDBBaseURL,
		ImageBaseURL: cfg.TMDBImageBaseURL,
		Timeout:      cfg.TMDBTimeout,
		CacheTTL:     cfg.TMDBCacheTTL,
	})

	// Services
	movieService := services.NewMovieService(database.DB, gateway)
	userService := services.NewUserService(database.DB, cfg, movieService)

	// Resource plugins
	plugins := []resources.Plugin{
		reviews.New(),
		watchlist.New(),
		favourites.New(),
		likes.New(),
	}

	// Migrate plugin models
	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(models); err != nil {
				slog.Error("resource migration failed", "resource", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("resource migrated", "resource", p.ID(), "models", len(models))
		}
	}

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	movieHandler := handlers.NewMovieHandler(gateway, movieService)
	healthHandler := handlers.NewHealthHandler()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
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
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	deps := resources.Deps{
		DB:     database.DB,
		Cfg:    cfg,
		Movies: movieService,
		Auth:   middleware.JWTProtected(cfg),
	}
	routes.Setup(app, cfg, database.DB, userHandler, movieHandler, healthHandler, plugins, deps)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
