package services

import (
	"context"
	"log/slog"

	"github.com/cinelog/cinelog/internal/models"
	"github.com/cinelog/cinelog/internal/tmdb"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentFetcher is the slice of the TMDB gateway the reconciler needs.
type ContentFetcher interface {
	ContentByID(ctx context.Context, id int64, contentType string) (*tmdb.Content, error)
	PosterURL(path string) *string
}

// MovieService reconciles external TMDB ids with local movie rows so
// dependent writes (reviews, watchlist, favourites, likes) always have
// a valid foreign key to anchor on.
type MovieService struct {
	db      *gorm.DB
	gateway ContentFetcher
}

func NewMovieService(db *gorm.DB, gateway ContentFetcher) *MovieService {
	return &MovieService{db: db, gateway: gateway}
}

// EnsureMovieID returns the local id for a TMDB movie id, fetching and
// caching the record if it is not known yet.
//
// The lookup-then-upsert sequence is intentionally not locked: the
// unique index on movies.tmdb_id plus the ON CONFLICT upsert is the
// arbiter of concurrent callers, which both succeed and converge on a
// single row with last-write-wins values.
func (s *MovieService) EnsureMovieID(ctx context.Context, tmdbID int64) (uuid.UUID, error) {
	if id, found, err := s.LookupMovieID(tmdbID); err != nil {
		return uuid.Nil, err
	} else if found {
		return id, nil
	}

	content, err := s.gateway.ContentByID(ctx, tmdbID, models.ContentTypeMovie)
	if err != nil {
		// No partial row on gateway failure.
		return uuid.Nil, err
	}

	movie, err := s.upsertFromContent(content, models.ContentTypeMovie)
	if err != nil {
		return uuid.Nil, err
	}
	return movie.ID, nil
}

// LookupMovieID resolves a TMDB id against the local cache only, with
// no external call.
func (s *MovieService) LookupMovieID(tmdbID int64) (uuid.UUID, bool, error) {
	var movie models.Movie
	err := s.db.Select("id").Where("tmdb_id = ?", tmdbID).First(&movie).Error
	if err == nil {
		return movie.ID, true, nil
	}
	if err == gorm.ErrRecordNotFound {
		return uuid.Nil, false, nil
	}
	return uuid.Nil, false, err
}

// SyncFromTMDB fetches full details for the get-by-id path, refreshes
// the cached movie row and, best effort, its genre links. A genre
// linkage failure is logged and does not fail the fetch.
func (s *MovieService) SyncFromTMDB(ctx context.Context, tmdbID int64, contentType string) (*tmdb.Content, error) {
	content, err := s.gateway.ContentByID(ctx, tmdbID, contentType)
	if err != nil {
		return nil, err
	}

	movie, err := s.upsertFromContent(content, contentType)
	if err != nil {
		return nil, err
	}

	if err := s.replaceGenreLinks(movie.ID, content.Genres); err != nil {
		slog.Error("genre linkage failed", "tmdb_id", tmdbID, "error", err)
	}
	return content, nil
}

func (s *MovieService) upsertFromContent(content *tmdb.Content, contentType string) (*models.Movie, error) {
	movie := models.Movie{
		ID:          uuid.New(),
		TmdbID:      content.ID,
		Title:       content.DisplayTitle(),
		ReleaseYear: content.ReleaseYear(),
		PosterURL:   s.gateway.PosterURL(content.PosterPath),
		ContentType: contentType,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "release_year", "poster_url", "content_type"}),
	}).Create(&movie).Error
	if err != nil {
		return nil, err
	}

	// On conflict the pre-existing row keeps its id. Re-read into a
	// fresh struct: movie's primary key is already set and would end
	// up in the WHERE clause otherwise.
	var saved models.Movie
	if err := s.db.Where("tmdb_id = ?", content.ID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// replaceGenreLinks upserts each genre by its TMDB id and fully
// replaces the movie's join set (delete then insert, not a diff).
func (s *MovieService) replaceGenreLinks(movieID uuid.UUID, genres []tmdb.Genre) error {
	genreIDs := make([]uuid.UUID, 0, len(genres))
	for _, g := range genres {
		genre := models.Genre{ID: uuid.New(), TmdbID: g.ID, Name: g.Name}
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tmdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&genre).Error
		if err != nil {
			return err
		}
		var saved models.Genre
		if err := s.db.Where("tmdb_id = ?", g.ID).First(&saved).Error; err != nil {
			return err
		}
		genreIDs = append(genreIDs, saved.ID)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", movieID).Delete(&models.MovieGenre{}).Error; err != nil {
			return err
		}
		if len(genreIDs) == 0 {
			return nil
		}
		links := make([]models.MovieGenre, len(genreIDs))
		for i, genreID := range genreIDs {
			links[i] = models.MovieGenre{MovieID: movieID, GenreID: genreID}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
}

// GenresForMovie returns the linked genres, used by the movie details
// endpoints.
func (s *MovieService) GenresForMovie(movieID uuid.UUID) ([]models.Genre, error) {
	var genres []models.Genre
	err := s.db.
		Joins("JOIN movie_genres ON movie_genres.genre_id = genres.id").
		Where("movie_genres.movie_id = ?", movieID).
		Find(&genres).Error
	return genres, err
}
