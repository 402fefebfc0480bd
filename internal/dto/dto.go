package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

type UserPatchRequest struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	Role            *string `json:"role"`
	FavouriteTmdbID *int64  `json:"favourite_tmdb_id"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}

// MovieSummary is the cached movie shape embedded in resource listings.
type MovieSummary struct {
	ID          uuid.UUID `json:"id"`
	TmdbID      int64     `json:"tmdb_id"`
	Title       string    `json:"title"`
	ReleaseYear *int      `json:"release_year"`
	PosterURL   *string   `json:"poster_url"`
	ContentType string    `json:"content_type"`
}

// TrendingMovie is a movie ranked by likes inside a recent window.
type TrendingMovie struct {
	MovieSummary
	Likes        int       `json:"likes_last_window"`
	LatestLikeAt time.Time `json:"latest_like_at"`
}
