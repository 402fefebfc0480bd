package middleware

import (
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTProtected rejects requests without a valid bearer token. An
// expired token and a tampered one are indistinguishable to the
// client.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "Invalid or expired token",
				Code:  "unauthorized",
			})
		},
	})
}

// CurrentClaims extracts the verified token payload placed in context
// by JWTProtected. Nil on unauthenticated routes.
func CurrentClaims(c *fiber.Ctx) *auth.Claims {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil
	}
	return auth.ClaimsFromToken(token)
}
