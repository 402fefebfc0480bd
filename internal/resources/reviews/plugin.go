package reviews

import (
	"github.com/cinelog/cinelog/internal/resources"
	"github.com/gofiber/fiber/v2"
)

// Plugin implements resources.Plugin for reviews.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) ID() string { return "reviews" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Review{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps resources.Deps) {
	svc := NewService(deps.DB, deps.Movies)
	handler := NewHandler(svc, deps.Movies)

	router.Get("/reviews/movie/:tmdbId", handler.ListByMovie)
	router.Get("/reviews/user/:userId", handler.ListByUser)
	router.Post("/reviews", deps.Auth, handler.Create)
	router.Put("/reviews/:id", deps.Auth, handler.Update)
	router.Delete("/reviews/:id", deps.Auth, handler.Delete)
}
