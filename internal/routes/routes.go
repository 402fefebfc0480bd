package routes

import (
	"time"

	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/handlers"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/resources"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	userHandler *handlers.UserHandler,
	movieHandler *handlers.MovieHandler,
	healthHandler *handlers.HealthHandler,
	plugins []resources.Plugin,
	deps resources.Deps,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Users — stricter limit on the credential endpoints
	users := api.Group("/users")
	authLimiter := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	users.Post("/", authLimiter, userHandler.Register)
	users.Post("/login", authLimiter, userHandler.Login)
	users.Post("/logout", middleware.JWTProtected(cfg), userHandler.Logout)
	users.Get("/me", middleware.JWTProtected(cfg), userHandler.Me)
	users.Get("/", middleware.JWTProtected(cfg), middleware.AdminRequired(db), userHandler.List)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", middleware.JWTProtected(cfg), userHandler.Update)
	users.Delete("/:id", middleware.JWTProtected(cfg), middleware.AdminRequired(db), userHandler.Delete)

	// Movies — public TMDB proxy. Static paths before the :id catch-all.
	movies := api.Group("/movies")
	movies.Get("/trending", movieHandler.Trending)
	movies.Get("/top-rated", movieHandler.TopRated)
	movies.Get("/genres", movieHandler.Genres)
	movies.Get("/year/:year", movieHandler.ByYear)
	movies.Get("/genre/:id", movieHandler.ByGenre)
	movies.Get("/search", movieHandler.Search)
	movies.Get("/advanced", movieHandler.Advanced)
	movies.Get("/:id", movieHandler.ByID)

	// Resource plugins (reviews, watchlist, favourites, likes)
	for _, p := range plugins {
		p.RegisterRoutes(api, deps)
	}
}
