// Package testutil provides the in-memory database and gateway stubs
// shared by service tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/tmdb"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory SQLite database, migrates the shared
// models plus any extras and returns it. cache=shared keeps the
// database alive across the pooled connections used by concurrent
// test goroutines.
func NewDB(t *testing.T, extras ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	shared := []interface{}{
		&models.Movie{},
		&models.Genre{},
		&models.MovieGenre{},
		&models.User{},
	}
	if err := db.AutoMigrate(append(shared, extras...)...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// StubGateway is a canned ContentFetcher.
type StubGateway struct {
	Content map[int64]*tmdb.Content
	Err     error
	calls   atomic.Int64
}

func (g *StubGateway) ContentByID(_ context.Context, id int64, _ string) (*tmdb.Content, error) {
	g.calls.Add(1)
	if g.Err != nil {
		return nil, g.Err
	}
	if content, ok := g.Content[id]; ok {
		return content, nil
	}
	return &tmdb.Content{ID: id, Title: fmt.Sprintf("Movie %d", id), ReleaseDate: "2020-01-01"}, nil
}

func (g *StubGateway) PosterURL(path string) *string {
	if path == "" {
		return nil
	}
	full := "https://image.tmdb.org/t/p/w500" + path
	return &full
}

// Calls reports how many detail fetches the stub served.
func (g *StubGateway) Calls() int64 {
	return g.calls.Load()
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Username:     "user-" + uuid.NewString()[:8],
		Email:        uuid.NewString()[:8] + "@example.com",
		PasswordHash: "salt:hash",
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// SeedMovie inserts a cached movie row and returns it.
func SeedMovie(t *testing.T, db *gorm.DB, tmdbID int64) *models.Movie {
	t.Helper()
	movie := &models.Movie{
		ID:          uuid.New(),
		TmdbID:      tmdbID,
		Title:       fmt.Sprintf("Movie %d", tmdbID),
		ContentType: models.ContentTypeMovie,
	}
	if err := db.Create(movie).Error; err != nil {
		t.Fatalf("failed to seed movie: %v", err)
	}
	return movie
}
