package services

import (
	"context"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	movies := NewMovieService(db, &testutil.StubGateway{})
	return NewUserService(db, cfg, movies), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.Register(RegisterInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	token, logged, err := svc.Login("alice", "", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	// Login by email works too.
	_, _, err = svc.Login("", "alice@example.com", "s3cret")
	require.NoError(t, err)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "pw"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(RegisterInput{Username: "alice"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)

	_, err = svc.Register(RegisterInput{Username: "bob", Email: "b@example.com", Password: "pw", Role: "root"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "s3cret"})
	require.NoError(t, err)

	var appErr *apperr.Error

	_, _, err = svc.Login("alice", "", "wrong")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)

	// Unknown user and wrong password are indistinguishable.
	_, _, err = svc.Login("nobody", "", "s3cret")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Status)
	assert.Equal(t, "Invalid credentials", appErr.Message)
}

func TestUpdatePatchesFields(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	newName := "alice2"
	updated, err := svc.Update(context.Background(), user.ID, UserPatch{Username: &newName})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)
	assert.Equal(t, user.Email, updated.Email)
}

func TestUpdateFavouriteResolvesTmdbID(t *testing.T) {
	svc, db := newUserService(t)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	tmdbID := int64(603)
	updated, err := svc.Update(context.Background(), user.ID, UserPatch{FavouriteTmdbID: &tmdbID})
	require.NoError(t, err)
	require.NotNil(t, updated.FavouriteMovieID)

	var movie models.Movie
	require.NoError(t, db.First(&movie, "id = ?", updated.FavouriteMovieID).Error)
	assert.EqualValues(t, 603, movie.TmdbID)
}

func TestUpdateEmptyPatch(t *testing.T) {
	svc, _ := newUserService(t)

	_, err := svc.Update(context.Background(), uuid.New(), UserPatch{})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _ := newUserService(t)

	name := "ghost"
	_, err := svc.Update(context.Background(), uuid.New(), UserPatch{Username: &name})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestDeleteUser(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(user.ID))

	var appErr *apperr.Error
	_, err = svc.GetByID(user.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)

	err = svc.Delete(user.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}
