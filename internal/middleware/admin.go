package middleware

import (
	"github.com/cinelog/cinelog/internal/dto"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminRequired gates admin-only routes. The token's role claim is
// checked first, then confirmed against the DB row so a demoted admin
// cannot keep using an old token.
func AdminRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := CurrentClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "Unauthorized",
				Code:  "unauthorized",
			})
		}

		if claims.Role == models.RoleAdmin {
			var user models.User
			if err := db.Select("role").First(&user, "id = ?", claims.UserID).Error; err == nil {
				if user.Role == models.RoleAdmin {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: "Admin access required",
			Code:  "forbidden",
		})
	}
}
