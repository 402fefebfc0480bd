package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/auth"
	"github.com/cinelog/cinelog/internal/config"
	"github.com/cinelog/cinelog/internal/database"
	"github.com/cinelog/cinelog/internal/dto"
	"github.com/cinelog/cinelog/internal/handlers"
	"github.com/cinelog/cinelog/internal/middleware"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/resources"
	"github.com/cinelog/cinelog/internal/resources/favourites"
	"github.com/cinelog/cinelog/internal/resources/likes"
	"github.com/cinelog/cinelog/internal/resources/reviews"
	"github.com/cinelog/cinelog/internal/resources/watchlist"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/cinelog/cinelog/internal/testutil"
	"github.com/cinelog/cinelog/internal/tmdb"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db := testutil.NewDB(t, &reviews.Review{}, &watchlist.Entry{}, &favourites.Entry{}, &likes.Like{})
	database.DB = db

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	gateway := tmdb.New(tmdb.Config{APIKey: "test-key"})
	movieService := services.NewMovieService(db, &testutil.StubGateway{})
	userService := services.NewUserService(db, cfg, movieService)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	plugins := []resources.Plugin{reviews.New(), watchlist.New(), favourites.New(), likes.New()}
	deps := resources.Deps{
		DB:     db,
		Cfg:    cfg,
		Movies: movieService,
		Auth:   middleware.JWTProtected(cfg),
	}
	Setup(app, cfg, db,
		handlers.NewUserHandler(userService),
		handlers.NewMovieHandler(gateway, movieService),
		handlers.NewHealthHandler(),
		plugins, deps)
	return app, db, cfg
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var envelope dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func tokenFor(t *testing.T, cfg *config.Config, user *models.User) string {
	t.Helper()
	token, err := auth.SignToken(cfg.JWTSecret, user, cfg.JWTExpiry)
	require.NoError(t, err)
	return token
}

func TestRegisterAndDuplicateEnvelope(t *testing.T) {
	app, _, _ := newTestApp(t)

	body := map[string]string{"username": "alice", "email": "alice@example.com", "password": "s3cret"}
	resp := doJSON(t, app, fiber.MethodPost, "/api/users/", "", body)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/users/", "", body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, "conflict", envelope.Code)
	assert.Equal(t, "username or email already exists", envelope.Error)
}

func TestLoginThenMe(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/api/users/", "",
		map[string]string{"username": "alice", "email": "alice@example.com", "password": "s3cret"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/users/login", "",
		map[string]string{"username": "alice", "password": "s3cret"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)

	resp = doJSON(t, app, fiber.MethodGet, "/api/users/me", login.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, "unauthorized", envelope.Code)
	assert.Equal(t, "Invalid or expired token", envelope.Error)
}

func TestAdminGate(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user := testutil.SeedUser(t, db, models.RoleUser)
	admin := testutil.SeedUser(t, db, models.RoleAdmin)

	resp := doJSON(t, app, fiber.MethodGet, "/api/users/", tokenFor(t, cfg, user), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Admin access required", decodeError(t, resp).Error)

	resp = doJSON(t, app, fiber.MethodGet, "/api/users/", tokenFor(t, cfg, admin), nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestReviewValidationEnvelope(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	resp := doJSON(t, app, fiber.MethodPost, "/api/reviews", tokenFor(t, cfg, user),
		map[string]interface{}{"tmdb_id": 603, "rating": 3.7})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, "validation_error", envelope.Code)
}

func TestReviewForOtherUserForbidden(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user := testutil.SeedUser(t, db, models.RoleUser)
	other := testutil.SeedUser(t, db, models.RoleUser)

	resp := doJSON(t, app, fiber.MethodPost, "/api/reviews", tokenFor(t, cfg, user),
		map[string]interface{}{"user_id": other.ID, "tmdb_id": 603, "rating": 4.0})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestLikesTrendingPublic(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/likes/trending", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rows []dto.TrendingMovie
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	assert.Empty(t, rows)
}

func TestHealth(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var health dto.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "ok", health.DB)
}
