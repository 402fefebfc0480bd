package watchlist

import (
	"context"
	"errors"

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

// Add puts a movie on the user's watchlist. Re-adding a movie already
// on the list updates its status in place.
func (s *Service) Add(ctx context.Context, userID uuid.UUID, tmdbID int64, status string) (*Entry, error) {
	if status == "" {
		status = StatusPlanned
	}
	if !ValidStatus(status) {
		return nil, apperr.Validation("status must be planned, watching, or completed")
	}

	movieID, err := s.movies.EnsureMovieID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	entry := Entry{
		ID:      uuid.New(),
		UserID:  userID,
		MovieID: movieID,
		Status:  status,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(&entry).Error
	if err != nil {
		return nil, apperr.Internal("failed to add to watchlist", err)
	}

	var saved Entry
	if err := s.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *Service) Get(id uuid.UUID) (*Entry, error) {
	var entry Entry
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Watchlist entry not found")
		}
		return nil, err
	}
	return &entry, nil
}

func (s *Service) ListByUser(userID uuid.UUID) ([]Entry, error) {
	var list []Entry
	err := s.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&list).Error
	return list, err
}

func (s *Service) UpdateStatus(id uuid.UUID, status string) (*Entry, error) {
	if !ValidStatus(status) {
		return nil, apperr.Validation("status must be planned, watching, or completed")
	}
	result := s.db.Model(&Entry{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return nil, apperr.Internal("failed to update watchlist entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("Watchlist entry not found")
	}
	return s.Get(id)
}

func (s *Service) Remove(id uuid.UUID) error {
	result := s.db.Delete(&Entry{}, "id = ?", id)
	if result.Error != nil {
		return apperr.Internal("failed to remove watchlist entry", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Watchlist entry not found")
	}
	return nil
}
