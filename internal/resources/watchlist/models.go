package watchlist

import (
	"time"

	"github.com/cinelog/cinelog/internal/models"
	"github.com/google/uuid"
)

const (
	StatusPlanned   = "planned"
	StatusWatching  = "watching"
	StatusCompleted = "completed"
)

// Entry is one movie on a user's watchlist. The (user_id, movie_id)
// unique index makes a second add an upsert, not a duplicate.
type Entry struct {
	ID      uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_movie" json:"user_id"`
	User    *models.User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	MovieID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_watchlist_user_movie" json:"movie_id"`
	Movie   *models.Movie `gorm:"constraint:OnDelete:CASCADE" json:"movie,omitempty"`
	Status  string        `gorm:"size:20;not null;default:'planned'" json:"status"`
	AddedAt time.Time     `gorm:"autoCreateTime" json:"added_at"`
}

func (Entry) TableName() string { return "watchlist" }

func ValidStatus(s string) bool {
	return s == StatusPlanned || s == StatusWatching || s == StatusCompleted
}
