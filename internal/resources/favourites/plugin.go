package favourites

import (
	"github.com/cinelog/cinelog/internal/resources"
	"github.com/gofiber/fiber/v2"
)

// Plugin implements resources.Plugin for favourites.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) ID() string { return "favourites" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Entry{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps resources.Deps) {
	svc := NewService(deps.DB, deps.Movies)
	handler := NewHandler(svc)

	router.Get("/favourites/:userId", deps.Auth, handler.List)
	router.Post("/favourites", deps.Auth, handler.Add)
	router.Delete("/favourites/:userId/:tmdbId", deps.Auth, handler.Remove)
}
