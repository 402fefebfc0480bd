package reviews

import (
	"context"
	"testing"
	"time"

	"github.com/cinelog/cinelog/internal/apperr"
	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/services"
	"github.com/cinelog/cinelog/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &Review{})
	movies := services.NewMovieService(db, &testutil.StubGateway{})
	return NewService(db, movies), db
}

func TestCreateDefaultsToPublished(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	review, err := svc.Create(context.Background(), CreateInput{
		UserID: user.ID,
		TmdbID: 603,
		Rating: 4.5,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, review.Status)
	require.NotNil(t, review.PublishedAt)
	assert.Nil(t, review.FlaggedAt)

	// The movie row was reconciled as a side effect.
	var movie models.Movie
	require.NoError(t, db.Where("tmdb_id = ?", 603).First(&movie).Error)
	assert.Equal(t, movie.ID, review.MovieID)
}

func TestCreateDraftHasNoPublishedAt(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	review, err := svc.Create(context.Background(), CreateInput{
		UserID: user.ID,
		TmdbID: 603,
		Rating: 3.0,
		Status: StatusDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, review.Status)
	assert.Nil(t, review.PublishedAt)
}

func TestCreateRejectsInvalidRating(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	for _, rating := range []float64{0, 0.25, 3.7, 5.5, -1} {
		_, err := svc.Create(context.Background(), CreateInput{
			UserID: user.ID,
			TmdbID: 603,
			Rating: rating,
		})
		var appErr *apperr.Error
		require.ErrorAs(t, err, &appErr, "rating %v", rating)
		assert.Equal(t, 400, appErr.Status)
	}
}

func TestUpdatePublishStampsTimestamp(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	review, err := svc.Create(context.Background(), CreateInput{
		UserID: user.ID,
		TmdbID: 603,
		Rating: 4.0,
		Status: StatusDraft,
	})
	require.NoError(t, err)
	require.Nil(t, review.PublishedAt)

	status := StatusPublished
	updated, err := svc.Update(review.ID, Patch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, updated.Status)
	require.NotNil(t, updated.PublishedAt)
	assert.WithinDuration(t, time.Now(), *updated.PublishedAt, 5*time.Second)
}

func TestUpdateUnpublishClearsTimestamp(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	review, err := svc.Create(context.Background(), CreateInput{
		UserID: user.ID,
		TmdbID: 603,
		Rating: 4.0,
	})
	require.NoError(t, err)
	require.NotNil(t, review.PublishedAt)

	status := StatusDraft
	updated, err := svc.Update(review.ID, Patch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, updated.Status)
	assert.Nil(t, updated.PublishedAt)

	// Flagging a published review also drops the published stamp.
	status = StatusPublished
	_, err = svc.Update(review.ID, Patch{Status: &status})
	require.NoError(t, err)
	status = StatusFlagged
	updated, err = svc.Update(review.ID, Patch{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, updated.PublishedAt)
	require.NotNil(t, updated.FlaggedAt)
}

func TestUpdateUnknownReview(t *testing.T) {
	svc, _ := newService(t)

	rating := 4.0
	_, err := svc.Update(uuid.New(), Patch{Rating: &rating})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestListByUserPublishedOnly(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	_, err := svc.Create(context.Background(), CreateInput{UserID: user.ID, TmdbID: 1, Rating: 3.0, Status: StatusDraft})
	require.NoError(t, err)
	first, err := svc.Create(context.Background(), CreateInput{UserID: user.ID, TmdbID: 2, Rating: 4.0})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreateInput{UserID: user.ID, TmdbID: 3, Rating: 5.0})
	require.NoError(t, err)

	// Make the ordering deterministic.
	later := time.Now().Add(time.Minute)
	require.NoError(t, db.Model(&Review{}).Where("id = ?", second.ID).Update("published_at", later).Error)

	list, err := svc.ListByUser(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	require.NotNil(t, list[0].Movie, "movie is preloaded")
}

func TestListByMovie(t *testing.T) {
	svc, db := newService(t)
	alice := testutil.SeedUser(t, db, models.RoleUser)
	bob := testutil.SeedUser(t, db, models.RoleUser)

	_, err := svc.Create(context.Background(), CreateInput{UserID: alice.ID, TmdbID: 603, Rating: 4.0})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{UserID: bob.ID, TmdbID: 603, Rating: 2.5, Status: StatusDraft})
	require.NoError(t, err)

	movies := services.NewMovieService(db, &testutil.StubGateway{})
	movieID, found, err := movies.LookupMovieID(603)
	require.NoError(t, err)
	require.True(t, found)

	list, err := svc.ListByMovie(movieID)
	require.NoError(t, err)
	require.Len(t, list, 2, "movie listing includes drafts")
	require.NotNil(t, list[0].User, "author is preloaded")
}

func TestDeleteReview(t *testing.T) {
	svc, db := newService(t)
	user := testutil.SeedUser(t, db, models.RoleUser)

	review, err := svc.Create(context.Background(), CreateInput{UserID: user.ID, TmdbID: 603, Rating: 4.0})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(review.ID))

	var appErr *apperr.Error
	err = svc.Delete(review.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}
