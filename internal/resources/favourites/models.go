package favourites

import (
	"time"

	"github.com/cinelog/cinelog/internal/models"
	"github.com/google/uuid"
)

// Entry marks a movie as one of a user's favourites. Uniqueness is on
// the (user_id, movie_id) pair; re-adding is idempotent and returns
// the existing row.
type Entry struct {
	ID      uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_favourites_user_movie" json:"user_id"`
	User    *models.User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MovieID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_favourites_user_movie" json:"movie_id"`
	Movie   *models.Movie `gorm:"constraint:OnDelete:CASCADE" json:"movie,omitempty"`
	AddedAt time.Time     `gorm:"autoCreateTime" json:"added_at"`
}

func (Entry) TableName() string { return "favourites" }
