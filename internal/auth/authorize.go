package auth

import (
	"github.com/cinelog/cinelog/internal/models"
	"github.com/google/uuid"
)

// CanAct is the ownership-or-admin predicate applied before every
// read or mutation of a user-owned resource.
func CanAct(actor *Claims, targetUserID uuid.UUID) bool {
	if actor == nil {
		return false
	}
	return actor.Role == models.RoleAdmin || actor.UserID == targetUserID
}
