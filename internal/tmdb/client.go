// Package tmdb is the gateway to the TMDB API. It shields the rest of
// the system from upstream rate limits and transient failures with a
// short-lived response cache, a single retry on 429 and a bounded
// request timeout, and classifies failures into the apperr taxonomy.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cinelog/cinelog/internal/apperr"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration // per-request bound, default 10s
	CacheTTL     time.Duration // absolute from insertion, default 5m
	RetryBackoff time.Duration // wait before the single 429 retry, default 1s
}

type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	retryBackoff time.Duration
	httpClient   *http.Client
	cache        *gocache.Cache
	group        singleflight.Group
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = "https://image.tmdb.org/t/p"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Second
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		retryBackoff: cfg.RetryBackoff,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		cache:        gocache.New(cfg.CacheTTL, 10*time.Minute),
	}
}

// Fetch performs a GET against the TMDB API. Successful bodies are
// memoized for the cache TTL; failures are never cached. Concurrent
// identical requests are collapsed with singleflight so a cache miss
// triggers at most one upstream call.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, apperr.Configuration("TMDB_API_KEY is not set")
	}

	// url.Values.Encode sorts keys, so the key is canonical.
	cacheKey := endpoint + "?" + params.Encode()
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(json.RawMessage), nil
	}

	body, err, _ := c.group.Do(cacheKey, func() (interface{}, error) {
		return c.fetch(ctx, endpoint, params, true)
	})
	if err != nil {
		return nil, err
	}

	raw := body.(json.RawMessage)
	c.cache.SetDefault(cacheKey, raw)
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values, retryOn429 bool) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperr.Internal("failed to build TMDB request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, apperr.UpstreamTimeout("TMDB request timed out", err)
		}
		return nil, apperr.UpstreamUnavailable("TMDB is unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		// Rate limited: back off once and retry; a second 429 propagates.
		if retryOn429 {
			select {
			case <-time.After(c.retryBackoff):
			case <-ctx.Done():
				return nil, apperr.UpstreamTimeout("TMDB request timed out", ctx.Err())
			}
			return c.fetch(ctx, endpoint, params, false)
		}
		return nil, apperr.Upstream(resp.StatusCode, "TMDB rate limit exceeded")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.UpstreamUnavailable("failed to read TMDB response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.Upstream(resp.StatusCode, upstreamMessage(resp.StatusCode, body))
	}

	if !json.Valid(body) {
		return nil, apperr.UpstreamParse(errors.New("response is not valid JSON"))
	}
	return json.RawMessage(body), nil
}

// upstreamMessage pulls TMDB's status_message out of an error body,
// falling back to a generic message.
func upstreamMessage(status int, body []byte) string {
	var payload struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.StatusMessage != "" {
		return "TMDB API error: " + payload.StatusMessage
	}
	return "TMDB API error: status " + http.StatusText(status)
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// PosterURL builds a full image URL from a TMDB poster path fragment.
// Empty paths yield nil.
func (c *Client) PosterURL(path string) *string {
	if path == "" {
		return nil
	}
	full := c.imageBaseURL + "/w500" + path
	return &full
}
