package services

import (
	"context"
	"errors"
	"time"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	cfg    *config.Config
	movies *MovieService
}

func NewUserService(db *gorm.DB, cfg *config.Config, movies *MovieService) *UserService {
	return &UserService{db: db, cfg: cfg, movies: movies}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, apperr.Validation("username, email and password are required")
	}
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		return nil, apperr.Validation("role must be user or admin")
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	return &user, nil
}

// Login authenticates by username or email and issues a bearer token.
func (s *UserService) Login(username, email, password string) (string, *models.User, error) {
	var user models.User
	var err error
	switch {
	case username != "":
		err = s.db.Where("username = ?", username).First(&user).Error
	case email != "":
		err = s.db.Where("email = ?", email).First(&user).Error
	default:
		return "", nil, apperr.Validation("username or email is required")
	}

	if err != nil || !auth.VerifyPassword(password, user.PasswordHash) {
		return "", nil, apperr.Unauthorized("Invalid credentials")
	}

	token, err := auth.SignToken(s.cfg.JWTSecret, &user, s.cfg.JWTExpiry)
	if err != nil {
		return "", nil, apperr.Internal("failed to sign token", err)
	}
	return token, &user, nil
}

func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

type UserPatch struct {
	Username        *string
	Email           *string
	Password        *string
	Role            *string
	FavouriteTmdbID *int64
}

func (p UserPatch) empty() bool {
	return p.Username == nil && p.Email == nil && p.Password == nil &&
		p.Role == nil && p.FavouriteTmdbID == nil
}

// Update patches a user. Authorization (ownership-or-admin, and
// admin-only role changes) is enforced by the handler before the data
// is touched.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch UserPatch) (*models.User, error) {
	if patch.empty() {
		return nil, apperr.Validation("No fields to update")
	}
	if patch.Role != nil && !models.ValidRole(*patch.Role) {
		return nil, apperr.Validation("role must be user or admin")
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Email != nil {
		updates["email"] = *patch.Email
	}
	if patch.Role != nil {
		updates["role"] = *patch.Role
	}
	if patch.Password != nil {
		hash, err := auth.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperr.Internal("failed to hash password", err)
		}
		updates["password_hash"] = hash
	}
	if patch.FavouriteTmdbID != nil {
		movieID, err := s.movies.EnsureMovieID(ctx, *patch.FavouriteTmdbID)
		if err != nil {
			return nil, err
		}
		updates["favourite_movie_id"] = movieID
	}

	result := s.db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("username or email already exists")
		}
		return nil, apperr.Internal("failed to update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("User not found")
	}
	return s.GetByID(id)
}

// Delete removes a user; dependent rows go with it via the store's
// cascade constraints.
func (s *UserService) Delete(id uuid.UUID) error {
	result := s.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return apperr.Internal("failed to delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}
