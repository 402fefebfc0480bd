package likes

import (
	"time"

	"github.com/cinelog/cinelog/internal/models"
	"github.com/google/uuid"
)

// Like is a one-shot engagement signal used for trending rankings.
// Unlike watchlist and favourites, a duplicate (user_id, movie_id)
// pair is a conflict, never an upsert.
type Like struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_movie_likes_user_movie" json:"user_id"`
	User      *models.User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MovieID   uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_movie_likes_user_movie" json:"movie_id"`
	Movie     *models.Movie `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

func (Like) TableName() string { return "movie_likes" }
