package favourites

import (
	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type addRequest struct {
	UserID *uuid.UUID `json:"user_id"`
	TmdbID int64      `json:"tmdb_id"`
}

// Add handles POST /api/favourites (owner or admin).
func (h *Handler) Add(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	var req addRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if req.TmdbID == 0 {
		return apperr.Validation("tmdb_id is required")
	}

	targetUser := claims.UserID
	if req.UserID != nil {
		targetUser = *req.UserID
	}
	if !auth.CanAct(claims, targetUser) {
		return apperr.Forbidden("")
	}

	entry, err := h.service.Add(c.Context(), targetUser, req.TmdbID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// List handles GET /api/favourites/:userId (owner or admin).
func (h *Handler) List(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return apperr.Validation("userId must be a UUID")
	}
	if !auth.CanAct(claims, userID) {
		return apperr.Forbidden("")
	}

	list, err := h.service.ListByUser(userID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// Remove handles DELETE /api/favourites/:userId/:tmdbId (owner or
// admin).
func (h *Handler) Remove(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return apperr.Validation("userId must be a UUID")
	}
	tmdbID, err := c.ParamsInt("tmdbId")
	if err != nil {
		return apperr.Validation("tmdbId must be an integer")
	}
	if !auth.CanAct(claims, userID) {
		return apperr.Forbidden("")
	}

	if err := h.service.Remove(c.Context(), userID, int64(tmdbID)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
