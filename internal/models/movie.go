package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContentTypeMovie = "movie"
	ContentTypeTV    = "tv"
)

// Movie is a local cache of a TMDB record. TmdbID is the stable
// external key: resolving the same TmdbID again refreshes the row
// instead of duplicating it. The unique index is what arbitrates
// concurrent writers; there is deliberately no application-level lock
// around lookup-then-upsert.
type Movie struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TmdbID      int64     `gorm:"not null;uniqueIndex" json:"tmdb_id"`
	Title       string    `gorm:"not null" json:"title"`
	ReleaseYear *int      `json:"release_year"`
	PosterURL   *string   `json:"poster_url"`
	ContentType string    `gorm:"size:10;not null;default:'movie'" json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Genre mirrors a TMDB genre, upserted by its external id.
type Genre struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TmdbID int64     `gorm:"not null;uniqueIndex" json:"tmdb_id"`
	Name   string    `gorm:"not null" json:"name"`
}

// MovieGenre links movies to genres. The join set for a movie is fully
// replaced on each sync, not diffed.
type MovieGenre struct {
	MovieID uuid.UUID `gorm:"type:uuid;primaryKey" json:"movie_id"`
	Movie   Movie     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GenreID uuid.UUID `gorm:"type:uuid;primaryKey" json:"genre_id"`
	Genre   Genre     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
