package reviews

import (
	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
	movies  *services.MovieService
}

func NewHandler(service *Service, movies *services.MovieService) *Handler {
	return &Handler{service: service, movies: movies}
}

type createRequest struct {
	UserID *uuid.UUID `json:"user_id"`
	TmdbID int64      `json:"tmdb_id"`
	Rating float64    `json:"rating"`
	Body   *string    `json:"body"`
	Status string     `json:"status"`
}

// Create handles POST /api/reviews. Writing a review for another user
// requires the admin role.
func (h *Handler) Create(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	var req createRequest
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

	review, err := h.service.Create(c.Context(), CreateInput{
		UserID: targetUser,
		TmdbID: req.TmdbID,
		Rating: req.Rating,
		Body:   req.Body,
		Status: req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

// ListByMovie handles GET /api/reviews/movie/:tmdbId (public). An
// unknown movie has no reviews rather than being an error.
func (h *Handler) ListByMovie(c *fiber.Ctx) error {
	tmdbID, err := c.ParamsInt("tmdbId")
	if err != nil {
		return apperr.Validation("tmdbId must be an integer")
	}

	movieID, found, err := h.movies.LookupMovieID(int64(tmdbID))
	if err != nil {
		return err
	}
	if !found {
		return c.JSON([]Review{})
	}

	list, err := h.service.ListByMovie(movieID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// ListByUser handles GET /api/reviews/user/:userId (public, published
// reviews only).
func (h *Handler) ListByUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return apperr.Validation("userId must be a UUID")
	}
	list, err := h.service.ListByUser(userID)
	if err != nil {
		return err
	}
	return c.JSON(list)
}

type patchRequest struct {
	Rating *float64 `json:"rating"`
	Body   *string  `json:"body"`
	Status *string  `json:"status"`
}

// Update handles PUT /api/reviews/:id (owner or admin).
func (h *Handler) Update(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a UUID")
	}

	review, err := h.service.Get(id)
	if err != nil {
		return err
	}
	if !auth.CanAct(claims, review.UserID) {
		return apperr.Forbidden("")
	}

	var req patchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	updated, err := h.service.Update(id, Patch{Rating: req.Rating, Body: req.Body, Status: req.Status})
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

// Delete handles DELETE /api/reviews/:id (owner or admin).
func (h *Handler) Delete(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a UUID")
	}

	review, err := h.service.Get(id)
	if err != nil {
		return err
	}
	if !auth.CanAct(claims, review.UserID) {
		return apperr.Forbidden("")
	}

	if err := h.service.Delete(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
