package likes

import (
	"github.com/cinelog/cinelog/internal/resources"
	"github.com/gofiber/fiber/v2"
)

// Plugin implements resources.Plugin for likes.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) ID() string { return "likes" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Like{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps resources.Deps) {
	svc := NewService(deps.DB, deps.Movies)
	handler := NewHandler(svc)

	router.Get("/likes/trending", handler.Trending)
	router.Post("/likes", deps.Auth, handler.Add)
	router.Delete("/likes/:tmdbId", deps.Auth, handler.Remove)
}
