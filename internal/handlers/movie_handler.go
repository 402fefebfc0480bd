package handlers

import (
	"strconv"
	"strings"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/cinelog/cinelog/internal/tmdb"
	"github.com/gofiber/fiber/v2"
)

// MovieHandler proxies TMDB browse/search endpoints and keeps the
// local movie cache fresh on the details path.
type MovieHandler struct {
	gateway *tmdb.Client
	movies  *services.MovieService
}

func NewMovieHandler(gateway *tmdb.Client, movies *services.MovieService) *MovieHandler {
	return &MovieHandler{gateway: gateway, movies: movies}
}

// Trending handles GET /api/movies/trending.
func (h *MovieHandler) Trending(c *fiber.Ctx) error {
	results, err := h.gateway.Trending(c.Context(), models.ContentTypeMovie)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// TopRated handles GET /api/movies/top-rated.
func (h *MovieHandler) TopRated(c *fiber.Ctx) error {
	results, err := h.gateway.TopRated(c.Context(), models.ContentTypeMovie)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// Genres handles GET /api/movies/genres.
func (h *MovieHandler) Genres(c *fiber.Ctx) error {
	genres, err := h.gateway.CachedGenres(c.Context(), models.ContentTypeMovie)
	if err != nil {
		return err
	}
	return c.JSON(genres)
}

// ByYear handles GET /api/movies/year/:year.
func (h *MovieHandler) ByYear(c *fiber.Ctx) error {
	year, err := c.ParamsInt("year")
	if err != nil {
		return apperr.Validation("year must be an integer")
	}
	sortBy := c.Query("sortBy", "popularity.desc")
	limit := c.QueryInt("limit", 20)

	results, err := h.gateway.ContentByYear(c.Context(), year, models.ContentTypeMovie, sortBy, limit)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// ByGenre handles GET /api/movies/genre/:id.
func (h *MovieHandler) ByGenre(c *fiber.Ctx) error {
	genreID, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("id must be an integer")
	}
	sortBy := c.Query("sortBy", "popularity.desc")
	page := c.QueryInt("page", 1)

	results, err := h.gateway.ContentByGenre(c.Context(), int64(genreID), models.ContentTypeMovie, sortBy, page)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// Search handles GET /api/movies/search?q=.
func (h *MovieHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return apperr.Validation("Query parameter q is required")
	}
	page := c.QueryInt("page", 1)

	results, err := h.gateway.Search(c.Context(), query, models.ContentTypeMovie, page)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// Advanced handles GET /api/movies/advanced with the discover filters.
func (h *MovieHandler) Advanced(c *fiber.Ctx) error {
	filter := tmdb.DiscoverFilter{
		Query:    c.Query("query"),
		Year:     c.QueryInt("year", 0),
		CrewName: c.Query("crew"),
		Page:     c.QueryInt("page", 1),
	}
	if raw := c.Query("genres"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return apperr.Validation("genres must be a comma-separated list of integers")
			}
			filter.Genres = append(filter.Genres, id)
		}
	}
	if raw := c.Query("ratingMin"); raw != "" {
		min, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperr.Validation("ratingMin must be a number")
		}
		filter.RatingMin = &min
	}
	if raw := c.Query("ratingMax"); raw != "" {
		max, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return apperr.Validation("ratingMax must be a number")
		}
		filter.RatingMax = &max
	}

	results, err := h.gateway.Discover(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(results)
}

// ByID handles GET /api/movies/:id. The details fetch also refreshes
// the local cache row and its genre links so later dependent writes
// have a warm anchor.
func (h *MovieHandler) ByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("id must be an integer")
	}

	content, err := h.movies.SyncFromTMDB(c.Context(), int64(id), models.ContentTypeMovie)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(content.Raw)
}
