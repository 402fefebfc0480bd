package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/cinelog/cinelog/internal/apperr"
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

type CreateInput struct {
	UserID uuid.UUID
	TmdbID int64
	Rating float64
	Body   *string
	Status string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*Review, error) {
	if !ValidRating(input.Rating) {
		return nil, apperr.Validation("rating must be between 0.5 and 5.0 in 0.5 steps")
	}
	status := input.Status
	if status == "" {
		status = StatusPublished
	}
	if !ValidStatus(status) {
		return nil, apperr.Validation("status must be draft, published or flagged")
	}

	movieID, err := s.movies.EnsureMovieID(ctx, input.TmdbID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	review := Review{
		ID:      uuid.New(),
		UserID:  input.UserID,
		MovieID: movieID,
		Rating:  input.Rating,
		Body:    input.Body,
		Status:  status,
	}
	switch status {
	case StatusPublished:
		review.PublishedAt = &now
	case StatusFlagged:
		review.FlaggedAt = &now
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, apperr.Internal("failed to create review", err)
	}
	return &review, nil
}

func (s *Service) Get(id uuid.UUID) (*Review, error) {
	var review Review
	if err := s.db.First(&review, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Review not found")
		}
		return nil, err
	}
	return &review, nil
}

// ListByMovie returns every review of a movie, newest first, with the
// author attached.
func (s *Service) ListByMovie(movieID uuid.UUID) ([]Review, error) {
	var list []Review
	err := s.db.Preload("User").
		Where("movie_id = ?", movieID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// ListByUser returns only the user's published reviews, most recently
// published first.
func (s *Service) ListByUser(userID uuid.UUID) ([]Review, error) {
	var list []Review
	err := s.db.Preload("Movie").
		Where("user_id = ? AND status = ?", userID, StatusPublished).
		Order("published_at DESC").
		Find(&list).Error
	return list, err
}

type Patch struct {
	Rating *float64
	Body   *string
	Status *string
}

func (s *Service) Update(id uuid.UUID, patch Patch) (*Review, error) {
	if patch.Rating == nil && patch.Body == nil && patch.Status == nil {
		return nil, apperr.Validation("No fields to update")
	}
	if patch.Rating != nil && !ValidRating(*patch.Rating) {
		return nil, apperr.Validation("rating must be between 0.5 and 5.0 in 0.5 steps")
	}
	if patch.Status != nil && !ValidStatus(*patch.Status) {
		return nil, apperr.Validation("status must be draft, published or flagged")
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if patch.Rating != nil {
		updates["rating"] = *patch.Rating
	}
	if patch.Body != nil {
		updates["body"] = *patch.Body
	}
	if patch.Status != nil {
		updates["status"] = *patch.Status
		// published_at is non-nil exactly when status is published.
		if *patch.Status == StatusPublished {
			updates["published_at"] = now
		} else {
			updates["published_at"] = nil
		}
		if *patch.Status == StatusFlagged {
			updates["flagged_at"] = now
		}
	}

	result := s.db.Model(&Review{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, apperr.Internal("failed to update review", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("Review not found")
	}
	return s.Get(id)
}

func (s *Service) Delete(id uuid.UUID) error {
	result := s.db.Delete(&Review{}, "id = ?", id)
	if result.Error != nil {
		return apperr.Internal("failed to delete review", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Review not found")
	}
	return nil
}
