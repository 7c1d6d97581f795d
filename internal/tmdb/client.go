// ===============================
// internal/tmdb/client.go - TMDB HTTP client
// ===============================

package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"luemtv/internal/config"
	"luemtv/internal/metrics"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrNotFound      = errors.New("TMDB resource not found")
	ErrAPIError      = errors.New("TMDB API error")
	ErrRateLimited   = errors.New("TMDB API rate limited")
)

// Image sizes used by the catalog.
const (
	PosterSize = "w500"
	ListSize   = "w300"
)

// Client is a TMDB API client. Every request waits on a shared token bucket
// so bursts from season loading stay under the configured rate.
type Client struct {
	httpClient *http.Client
	config     config.TMDBConfig
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(cfg config.TMDBConfig, logger zerolog.Logger) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		burst = int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}
}

// IsConfigured returns true if the API key is set.
func (c *Client) IsConfigured() bool {
	return c.config.APIKey != ""
}

// SearchMovies runs /search/movie. The query is sent verbatim.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*Page[MovieResult], error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("include_adult", "false")

	var result Page[MovieResult]
	if err := c.get(ctx, "search/movie", "/search/movie", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchTV runs /search/tv. The query is sent verbatim.
func (c *Client) SearchTV(ctx context.Context, query string, page int) (*Page[TVResult], error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var result Page[TVResult]
	if err := c.get(ctx, "search/tv", "/search/tv", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovie gets detailed movie info by TMDB ID.
func (c *Client) GetMovie(ctx context.Context, id int) (*MovieDetails, error) {
	var details MovieDetails
	if err := c.get(ctx, "movie", fmt.Sprintf("/movie/%d", id), nil, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("id", id).Str("title", details.Title).Msg("Got movie details")
	return &details, nil
}

// GetTV gets detailed series info, including the season list.
func (c *Client) GetTV(ctx context.Context, id int) (*TVDetails, error) {
	var details TVDetails
	if err := c.get(ctx, "tv", fmt.Sprintf("/tv/%d", id), nil, &details); err != nil {
		return nil, err
	}

	c.logger.Debug().Int("id", id).Str("name", details.Name).Int("seasons", len(details.Seasons)).Msg("Got series details")
	return &details, nil
}

// GetSeason gets one season with its episodes.
func (c *Client) GetSeason(ctx context.Context, tvID, seasonNumber int) (*SeasonDetails, error) {
	var details SeasonDetails
	path := fmt.Sprintf("/tv/%d/season/%d", tvID, seasonNumber)
	if err := c.get(ctx, "tv/season", path, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// UpcomingMovies is the first page of /movie/upcoming.
func (c *Client) UpcomingMovies(ctx context.Context) ([]MovieResult, error) {
	var result Page[MovieResult]
	if err := c.get(ctx, "movie/upcoming", "/movie/upcoming", nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// OnTheAirTV is the first page of /tv/on_the_air.
func (c *Client) OnTheAirTV(ctx context.Context) ([]TVResult, error) {
	var result Page[TVResult]
	if err := c.get(ctx, "tv/on_the_air", "/tv/on_the_air", nil, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// ImageURL returns a full image URL for a path and size ("w300", "w500",
// "original"). An empty path stays empty.
func (c *Client) ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s%s", c.config.ImageBaseURL, size, path)
}

// get adds the key and language, waits for the limiter, and records the
// outcome under the endpoint label.
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, result interface{}) error {
	if !c.IsConfigured() {
		return ErrAPIKeyMissing
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.config.APIKey)
	if c.config.Language != "" {
		params.Set("language", c.config.Language)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.TMDBRequests.WithLabelValues(endpoint, "canceled").Inc()
		return fmt.Errorf("rate limiter: %w", err)
	}

	err := c.doRequest(ctx, c.config.BaseURL+path, params, result)
	switch {
	case err == nil:
		metrics.TMDBRequests.WithLabelValues(endpoint, "ok").Inc()
	case errors.Is(err, ErrNotFound):
		metrics.TMDBRequests.WithLabelValues(endpoint, "not_found").Inc()
	default:
		metrics.TMDBRequests.WithLabelValues(endpoint, "error").Inc()
	}
	return err
}

// doRequest performs an HTTP GET request and decodes the JSON response.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", endpoint).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			c.logger.Error().
				Int("status", resp.StatusCode).
				Str("message", errResp.StatusMessage).
				Str("url", endpoint).
				Msg("TMDB API error")
		}

		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: invalid API key", ErrAPIError)
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
