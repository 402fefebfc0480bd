package watchlist

import (
	"github.com/cinelog/cinelog/internal/resources"
	"github.com/gofiber/fiber/v2"
)

// Plugin implements resources.Plugin for the watchlist.
type Plugin struct{}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) ID() string { return "watchlist" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Entry{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, deps resources.Deps) {
	svc := NewService(deps.DB, deps.Movies)
	handler := NewHandler(svc)

	router.Get("/watchlist/:userId", deps.Auth, handler.List)
	router.Post("/watchlist", deps.Auth, handler.Add)
	router.Put("/watchlist/:id", deps.Auth, handler.UpdateStatus)
	router.Delete("/watchlist/:id", deps.Auth, handler.Remove)
}
