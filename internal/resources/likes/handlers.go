package likes

import (
	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Add handles POST /api/likes. The like always belongs to the caller.
func (h *Handler) Add(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)

	var req struct {
		TmdbID int64 `json:"tmdb_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if req.TmdbID == 0 {
		return apperr.Validation("tmdb_id is required")
	}

	like, err := h.service.Add(c.Context(), claims.UserID, req.TmdbID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// Remove handles DELETE /api/likes/:tmdbId.
func (h *Handler) Remove(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	tmdbID, err := c.ParamsInt("tmdbId")
	if err != nil {
		return apperr.Validation("tmdbId must be an integer")
	}

	if err := h.service.Remove(claims.UserID, int64(tmdbID)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Trending handles GET /api/likes/trending?days=&limit= (public).
func (h *Handler) Trending(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	limit := c.QueryInt("limit", 20)

	rows, err := h.service.Trending(days, limit)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}
