// Package resources defines the plugin interface shared by the
// user-owned resource services (reviews, watchlist, favourites,
// likes). Each resource package composes the movie reconciler, the
// ownership check and its own keyed store operations behind this one
// shape.
package resources

import (
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries the collaborators handed to every resource plugin.
type Deps struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Movies *services.MovieService
	// Auth is the JWT middleware; plugins attach it to routes that
	// require an authenticated caller.
	Auth fiber.Handler
}

// Plugin is implemented by each resource package.
type Plugin interface {
	// ID returns the resource identifier used in logs and migrations.
	ID() string

	// Models returns the GORM model pointers for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the resource's routes on the /api group.
	RegisterRoutes(router fiber.Router, deps Deps)
}
