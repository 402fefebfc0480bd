package likes

import (
	"context"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/cinelog/cinelog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &Like{})
	movies := services.NewMovieService(db, &testutil.StubGateway{})
	return NewService(db, movies), db
}

func TestAddDuplicateConflicts(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	_, err := svc.Add(context.Background(), user.ID, 603)
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), user.ID, 603)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Status)
	assert.Equal(t, "You have already liked this movie", appErr.Message)

	// Another user liking the same movie is fine.
	other := testutil.SeedUser(t, db, models.RoleUser)
	_, err = svc.Add(context.Background(), other.ID, 603)
	require.NoError(t, err)
}

func TestRemove(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	_, err := svc.Add(context.Background(), user.ID, 603)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(user.ID, 603))

	var appErr *apperr.Error
	err = svc.Remove(user.ID, 603)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Like not found", appErr.Message)
}

func TestRemoveUnknownMovie(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	// Removal never fills the movie cache as a side effect.
	err := svc.Remove(user.ID, 999)
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "Movie not found", appErr.Message)
}

func TestTrendingRanksByLikesThenRecency(t *testing.T) {
	svc, db := newService(t)
	alice := testutil.SeedUser(t, db, models.RoleUser)
	bob := testutil.SeedUser(t, db, models.RoleUser)
	carol := testutil.SeedUser(t, db, models.RoleUser)

	// Movie 1: two likes. Movies 2 and 3: one like each, 3's more recent.
	_, err := svc.Add(context.Background(), alice.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), bob.ID, 1)
	require.NoError(t, err)
	two, err := svc.Add(context.Background(), alice.ID, 2)
	require.NoError(t, err)
	three, err := svc.Add(context.Background(), carol.ID, 3)
	require.NoError(t, err)

	earlier := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&Like{}).Where("id = ?", two.ID).Update("created_at", earlier).Error)
	require.NoError(t, db.Model(&Like{}).Where("id = ?", three.ID).Update("created_at", earlier.Add(time.Minute)).Error)

	rows, err := svc.Trending(30, 20)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.EqualValues(t, 1, rows[0].TmdbID)
	assert.Equal(t, 2, rows[0].Likes)
	assert.False(t, rows[0].LatestLikeAt.IsZero(), "latest like timestamp survives the scan")
	assert.EqualValues(t, 3, rows[1].TmdbID, "ties broken by latest like")
	assert.EqualValues(t, 2, rows[2].TmdbID)
}

func TestTrendingWindowExcludesOldLikes(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	like, err := svc.Add(context.Background(), user.ID, 1)
	require.NoError(t, err)
	stale := time.Now().AddDate(0, 0, -10)
	require.NoError(t, db.Model(&Like{}).Where("id = ?", like.ID).Update("created_at", stale).Error)

	rows, err := svc.Trending(7, 20)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = svc.Trending(30, 20)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestTrendingClampsInputs(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	_, err := svc.Add(context.Background(), user.ID, 1)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), user.ID, 2)
	require.NoError(t, err)

	// A non-positive limit clamps to 1, out-of-range days to the window bounds.
	rows, err := svc.Trending(-5, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	rows, err = svc.Trending(10000, 100)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestTrendingEmptyIsNotNil(t *testing.T) {
	svc, _ := newService(t)

	rows, err := svc.Trending(30, 20)
	require.NoError(t, err)
	require.NotNil(t, rows)
	assert.Empty(t, rows)
}
