package auth

import (
	"time"

	"github.com/cinelog/cinelog/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the verified payload of a bearer token.
type Claims struct {
	UserID   uuid.UUID
	Role     string
	Username string
}

// SignToken issues an HS256 bearer token for the user.
func SignToken(secret string, user *models.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"role":     user.Role,
		"username": user.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken is a total function from token string to nullable
// payload: invalid signature, malformed structure and past expiry all
// yield nil, indistinguishably.
func VerifyToken(secret, tokenString string) *Claims {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}
	return claimsFromToken(token)
}

// ClaimsFromToken extracts the payload from an already-verified token,
// e.g. one placed in request context by the JWT middleware.
func ClaimsFromToken(token *jwt.Token) *Claims {
	if token == nil {
		return nil
	}
	return claimsFromToken(token)
}

func claimsFromToken(token *jwt.Token) *Claims {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil
	}
	role, _ := mapClaims["role"].(string)
	username, _ := mapClaims["username"].(string)
	return &Claims{UserID: userID, Role: role, Username: username}
}
