package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. PasswordHash holds the salted KDF
// output as "salt:hash" and is never serialized.
type User struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username         string     `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email            string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash     string     `gorm:"not null" json:"-"`
	Role             string     `gorm:"size:20;not null;default:'user'" json:"role"`
	FavouriteMovieID *uuid.UUID `gorm:"type:uuid" json:"favourite_movie_id"`
	FavouriteMovie   *Movie     `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
