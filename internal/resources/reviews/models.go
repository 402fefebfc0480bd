package reviews

import (
	"time"

	"github.com/cinelog/cinelog/internal/models"
	"github.com/google/uuid"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusFlagged   = "flagged"
)

// Review is a user's rating of a cached movie. PublishedAt is non-nil
// exactly when Status is published.
type Review struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *models.User  `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	MovieID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"movie_id"`
	Movie       *models.Movie `gorm:"constraint:OnDelete:CASCADE" json:"movie,omitempty"`
	Rating      float64       `gorm:"type:numeric(2,1);not null" json:"rating"`
	Body        *string       `json:"body"`
	Status      string        `gorm:"size:20;not null;default:'draft'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	PublishedAt *time.Time    `json:"published_at"`
	FlaggedAt   *time.Time    `json:"flagged_at"`
}

// Ratings are restricted to half-star steps between 0.5 and 5.0.
var validRatings = map[float64]struct{}{
	0.5: {}, 1.0: {}, 1.5: {}, 2.0: {}, 2.5: {},
	3.0: {}, 3.5: {}, 4.0: {}, 4.5: {}, 5.0: {},
}

func ValidRating(r float64) bool {
	_, ok := validRatings[r]
	return ok
}

func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusFlagged
}
