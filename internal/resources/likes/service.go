package likes

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/dto"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	movies *services.MovieService
}

func NewService(db *gorm.DB, movies *services.MovieService) *Service {
	return &Service{db: db, movies: movies}
}

// Add records a like. Liking the same movie twice is a conflict.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, tmdbID int64) (*Like, error) {
	movieID, err := s.movies.EnsureMovieID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	like := Like{
		ID:      uuid.New(),
		UserID:  userID,
		MovieID: movieID,
	}
	if err := s.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("You have already liked this movie")
		}
		return nil, apperr.Internal("failed to add like", err)
	}
	return &like, nil
}

// Remove deletes the like for (userID, tmdbID). An unknown movie is
// NotFound, not an implicit cache fill.
func (s *Service) Remove(userID uuid.UUID, tmdbID int64) error {
	movieID, found, err := s.movies.LookupMovieID(tmdbID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("Movie not found")
	}

	result := s.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&Like{})
	if result.Error != nil {
		return apperr.Internal("failed to remove like", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Like not found")
	}
	return nil
}

// scanTime scans an aggregate timestamp column. Aggregate expressions
// carry no column type, so SQLite hands them back as text while
// Postgres keeps the native time value; both must land here.
type scanTime struct {
	time.Time
}

func (t *scanTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case time.Time:
		t.Time = v
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("cannot scan %T into time", value)
	}
}

// Value satisfies driver.Valuer so GORM's schema parser recognises the
// field as a time column instead of guessing a relation.
func (t scanTime) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *scanTime) parse(s string) error {
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		time.RFC3339Nano,
	} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("cannot parse %q as time", s)
}

type trendingRow struct {
	dto.MovieSummary
	Likes        int
	LatestLikeAt scanTime
}

// Trending ranks movies by likes received inside a rolling window.
// The window and result count are clamped to keep queries bounded.
func (s *Service) Trending(days, limit int) ([]dto.TrendingMovie, error) {
	if days < 1 {
		days = 1
	} else if days > 90 {
		days = 90
	}
	if limit < 1 {
		limit = 1
	} else if limit > 50 {
		limit = 50
	}

	cutoff := time.Now().AddDate(0, 0, -days)

	var rows []trendingRow
	err := s.db.Model(&Like{}).
		Select("movies.id AS id, movies.tmdb_id AS tmdb_id, movies.title AS title, "+
			"movies.release_year AS release_year, movies.poster_url AS poster_url, "+
			"movies.content_type AS content_type, "+
			"COUNT(movie_likes.id) AS likes, MAX(movie_likes.created_at) AS latest_like_at").
		Joins("JOIN movies ON movies.id = movie_likes.movie_id").
		Where("movie_likes.created_at >= ?", cutoff).
		Group("movies.id, movies.tmdb_id, movies.title, movies.release_year, movies.poster_url, movies.content_type").
		Order("likes DESC, latest_like_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]dto.TrendingMovie, len(rows))
	for i, row := range rows {
		out[i] = dto.TrendingMovie{
			MovieSummary: row.MovieSummary,
			Likes:        row.Likes,
			LatestLikeAt: row.LatestLikeAt.Time,
		}
	}
	return out, nil
}
