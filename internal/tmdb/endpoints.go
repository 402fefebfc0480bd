package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Content is the subset of a TMDB details payload the rest of the
// system cares about. Raw carries the full body (including credits and
// similar titles) for passthrough responses.
type Content struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	Genres       []Genre `json:"genres"`

	Raw json.RawMessage `json:"-"`
}

// DisplayTitle returns the movie title, falling back to the TV name.
func (c *Content) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

// ReleaseYear derives the year from the release date string. Absent or
// malformed dates yield nil, never an error.
func (c *Content) ReleaseYear() *int {
	date := c.ReleaseDate
	if date == "" {
		date = c.FirstAirDate
	}
	if len(date) < 4 {
		return nil
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return nil
	}
	return &year
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Person struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type resultsEnvelope struct {
	Results []json.RawMessage `json:"results"`
}

func (c *Client) results(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, error) {
	raw, err := c.Fetch(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	var envelope resultsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	return envelope.Results, nil
}

// Trending returns this week's trending titles for the content type.
func (c *Client) Trending(ctx context.Context, contentType string) ([]json.RawMessage, error) {
	return c.results(ctx, fmt.Sprintf("/trending/%s/week", contentType), url.Values{})
}

func (c *Client) TopRated(ctx context.Context, contentType string) ([]json.RawMessage, error) {
	return c.results(ctx, fmt.Sprintf("/%s/top_rated", contentType), url.Values{})
}

func (c *Client) ContentByYear(ctx context.Context, year int, contentType, sortBy string, limit int) ([]json.RawMessage, error) {
	dateField := "primary_release_date"
	if contentType == "tv" {
		dateField = "first_air_date"
	}
	params := url.Values{}
	params.Set(dateField+".gte", fmt.Sprintf("%d-01-01", year))
	params.Set(dateField+".lte", fmt.Sprintf("%d-12-31", year))
	params.Set("sort_by", sortBy)
	params.Set("page", "1")
	params.Set("vote_count.gte", "50")

	results, err := c.results(ctx, "/discover/"+contentType, params)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (c *Client) ContentByGenre(ctx context.Context, genreID int64, contentType, sortBy string, page int) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	params.Set("sort_by", sortBy)
	params.Set("page", strconv.Itoa(page))
	return c.results(ctx, "/discover/"+contentType, params)
}

// ContentByID fetches full details with credits and similar titles
// appended.
func (c *Client) ContentByID(ctx context.Context, id int64, contentType string) (*Content, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits,similar")
	raw, err := c.Fetch(ctx, fmt.Sprintf("/%s/%d", contentType, id), params)
	if err != nil {
		return nil, err
	}
	var content Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, err
	}
	content.Raw = raw
	return &content, nil
}

func (c *Client) Genres(ctx context.Context, contentType string) ([]Genre, error) {
	raw, err := c.Fetch(ctx, fmt.Sprintf("/genre/%s/list", contentType), url.Values{})
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Genres []Genre `json:"genres"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	return envelope.Genres, nil
}

// CachedGenres keeps the genre list in memory for the life of the
// client; genre ids change rarely enough that no TTL is applied.
func (c *Client) CachedGenres(ctx context.Context, contentType string) ([]Genre, error) {
	key := "genres:" + contentType
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]Genre), nil
	}
	genres, err := c.Genres(ctx, contentType)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, genres, gocache.NoExpiration)
	return genres, nil
}

func (c *Client) Search(ctx context.Context, query, contentType string, page int) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")
	return c.results(ctx, "/search/"+contentType, params)
}

// SearchPerson returns the best match for a person name, or nil when
// nothing matches.
func (c *Client) SearchPerson(ctx context.Context, name string) (*Person, error) {
	params := url.Values{}
	params.Set("query", name)
	params.Set("page", "1")
	params.Set("include_adult", "false")
	raw, err := c.Fetch(ctx, "/search/person", params)
	if err != nil {
		return nil, err
	}
	var envelope struct {
		Results []Person `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Results) == 0 {
		return nil, nil
	}
	return &envelope.Results[0], nil
}

// DiscoverFilter is the advanced-search input.
type DiscoverFilter struct {
	Query     string
	Year      int
	Genres    []int64
	RatingMin *float64
	RatingMax *float64
	CrewName  string
	Page      int
}

// Discover runs a filtered movie search. A crew-name filter is
// resolved to a person id first; an unresolvable name yields an empty
// result set rather than an error.
func (c *Client) Discover(ctx context.Context, filter DiscoverFilter) ([]json.RawMessage, error) {
	var personID int64
	if filter.CrewName != "" {
		person, err := c.SearchPerson(ctx, filter.CrewName)
		if err != nil {
			return nil, err
		}
		if person == nil {
			return []json.RawMessage{}, nil
		}
		personID = person.ID
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")
	params.Set("vote_count.gte", "50")

	if filter.Query != "" {
		params.Set("query", filter.Query)
		return c.results(ctx, "/search/movie", params)
	}

	if filter.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(filter.Year))
	}
	if len(filter.Genres) > 0 {
		ids := make([]string, len(filter.Genres))
		for i, id := range filter.Genres {
			ids[i] = strconv.FormatInt(id, 10)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if personID != 0 {
		params.Set("with_people", strconv.FormatInt(personID, 10))
	}
	if filter.RatingMin != nil {
		params.Set("vote_average.gte", strconv.FormatFloat(*filter.RatingMin, 'f', -1, 64))
	}
	if filter.RatingMax != nil {
		params.Set("vote_average.lte", strconv.FormatFloat(*filter.RatingMax, 'f', -1, 64))
	}

	return c.results(ctx, "/discover/movie", params)
}
