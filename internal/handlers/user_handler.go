package handlers

import (
	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/dto"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /api/users.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	user, err := h.users.Register(services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}

	token, user, err := h.users.Login(req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{Token: token, User: user})
}

// Logout handles POST /api/users/logout. Tokens are stateless; the
// client drops its copy.
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out. Clear the token on the client."})
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	user, err := h.users.GetByID(claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// List handles GET /api/users (admin only, enforced by route middleware).
func (h *UserHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List()
	if err != nil {
		return err
	}
	return c.JSON(users)
}

// GetByID handles GET /api/users/:id.
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a UUID")
	}
	user, err := h.users.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Update handles PATCH /api/users/:id. Owner or admin; changing roles
// additionally requires the caller to already be admin.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	claims := middleware.CurrentClaims(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a UUID")
	}
	if !auth.CanAct(claims, id) {
		return apperr.Forbidden("")
	}

	var req dto.UserPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request body")
	}
	if req.Role != nil && claims.Role != models.RoleAdmin {
		return apperr.Forbidden("Only admins can change roles")
	}

	user, err := h.users.Update(c.Context(), id, services.UserPatch{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		Role:            req.Role,
		FavouriteTmdbID: req.FavouriteTmdbID,
	})
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// Delete handles DELETE /api/users/:id (admin only, enforced by route
// middleware). Dependent rows cascade.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a UUID")
	}
	if err := h.users.Delete(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
