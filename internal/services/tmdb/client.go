// Package tmdb is a small client for the parts of the TMDB v3 API needed to
// resolve viewing-history titles to TMDB ids.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amaumene/nflxtrakt/internal/config"
	"github.com/amaumene/nflxtrakt/internal/metrics"
	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

const (
	baseURL     = "https://api.themoviedb.org/3"
	maxAttempts = 5
)

// ErrNotFound is returned when TMDB has no match
var ErrNotFound = errors.New("not found on TMDB")

// Client handles communication with the TMDB API
type Client struct {
	apiKey     string
	language   string
	baseURL    string
	httpClient *http.Client
	cache      *cache.Cache
	newBackOff func() backoff.BackOff
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	c := &Client{
		apiKey:     cfg.TMDBAPIKey,
		language:   cfg.TMDBLanguage,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 2 * time.Second
			b.MaxInterval = 10 * time.Second
			return b
		},
		logger: logger,
	}
	if cfg.TMDBCacheMinutes > 0 {
		ttl := time.Duration(cfg.TMDBCacheMinutes) * time.Minute
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

// Language returns the language requested from TMDB
func (c *Client) Language() string {
	return c.language
}

// doGET performs a GET request, retrying transport errors, rate limits and server errors
func (c *Client) doGET(ctx context.Context, endpoint, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	if params.Get("language") == "" && c.language != "" {
		params.Set("language", c.language)
	}

	cacheKey := path + "?" + params.Encode()
	if c.cache != nil {
		if body, ok := c.cache.Get(cacheKey); ok {
			return json.Unmarshal(body.([]byte), result)
		}
	}

	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	var body []byte
	operation := func() error {
		c.logger.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"path":     path,
		}).Debug("Making TMDB API request")

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.RecordTMDBRequest(endpoint, "error")
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		metrics.RecordTMDBRequest(endpoint, strconv.Itoa(resp.StatusCode))

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%s: %w", path, ErrNotFound))
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(data))
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return backoff.Permanent(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(data)))
		}

		body = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), maxAttempts-1), ctx)
	notify := func(err error, wait time.Duration) {
		c.logger.WithError(err).WithField("retry_in", wait).Warn("TMDB request failed, retrying")
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if c.cache != nil {
		c.cache.SetDefault(cacheKey, body)
	}
	return nil
}
