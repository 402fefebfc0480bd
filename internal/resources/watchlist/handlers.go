package watchlist

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

// List handles GET /api/watchlist/:userId (owner or admin).
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

type addRequest struct {
	UserID *uuid.UUID `json:"user_id"`
	TmdbID int64      `json:"tmdb_id"`
	Status string     `json:"status"`
}

// Add handles POST /api/watchlist (owner or admin; upsert by pair).
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

	entry, err := h.service.Add(c.Context(), targetUser, req.TmdbID, req.Status)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateStatus handles PUT /api/watchlist/:id. Ownership is resolved
// by loading the entry and comparing its user id.
func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a UUID")
	}

	entry, err := h.service.Get(id)
	if err != nil {
		return err
	}
	if !auth.CanAct(claims, entry.UserID) {
		return apperr.Forbidden("")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	updated, err := h.service.UpdateStatus(id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// Remove handles DELETE /api/watchlist/:id (owner or admin).
func (h *Handler) Remove(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a UUID")
	}

	entry, err := h.service.Get(id)
	if err != nil {
		return err
	}
	if !auth.CanAct(claims, entry.UserID) {
		return apperr.Forbidden("")
	}

	if err := h.service.Remove(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
