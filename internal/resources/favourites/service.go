package favourites

import (
	"context"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db     *gorm.DB
	movies *services.MovieService
}

func NewService(db *gorm.DB, movies *services.MovieService) *Service {
	return &Service{db: db, movies: movies}
}

// Add favourites a movie for the user. A second identical add returns
// the existing row rather than a conflict.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, tmdbID int64) (*Entry, error) {
	movieID, err := s.movies.EnsureMovieID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		ID:      uuid.New(),
		UserID:  userID,
		MovieID: movieID,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return nil, apperr.Internal("failed to add favourite", err)
	}

	var saved Entry
	if err := s.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *Service) ListByUser(userID uuid.UUID) ([]Entry, error) {
	var list []Entry
	err := s.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&list).Error
	return list, err
}

// Remove deletes the favourite keyed by (userID, tmdbID); the TMDB id
// is resolved through the reconciler first.
func (s *Service) Remove(ctx context.Context, userID uuid.UUID, tmdbID int64) error {
	movieID, err := s.movies.EnsureMovieID(ctx, tmdbID)
	if err != nil {
		return err
	}

	result := s.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&Entry{})
	if result.Error != nil {
		return apperr.Internal("failed to remove favourite", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("This movie is not on your favourites list")
	}
	return nil
}
