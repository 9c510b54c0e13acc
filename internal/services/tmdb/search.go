package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// TVResult is a TV show search hit
type TVResult struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	FirstAirDate string `json:"first_air_date"`
}

// MovieResult is a movie search hit
type MovieResult struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`
}

// TVDetails holds the show fields used for reconciliation
type TVDetails struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	NumberOfSeasons int    `json:"number_of_seasons"`
}

// SeasonDetails is a season with its episodes
type SeasonDetails struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

// Episode is an episode of a SeasonDetails
type Episode struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
}

// Translation is one language variant of an episode
type Translation struct {
	ISO6391  string `json:"iso_639_1"`
	ISO31661 string `json:"iso_3166_1"`
	Data     struct {
		Name     string `json:"name"`
		Overview string `json:"overview"`
	} `json:"data"`
}

// SearchTV searches TV shows by name. ErrNotFound is returned when nothing matches.
func (c *Client) SearchTV(ctx context.Context, query string) ([]TVResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", ErrNotFound)
	}

	var resp struct {
		Results []TVResult `json:"results"`
	}
	if err := c.doGET(ctx, "search_tv", "/search/tv", url.Values{"query": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("failed to search tv show %q: %w", query, err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("tv show %q: %w", query, ErrNotFound)
	}
	return resp.Results, nil
}

// SearchMovie searches movies by title. ErrNotFound is returned when nothing matches.
func (c *Client) SearchMovie(ctx context.Context, query string) ([]MovieResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty query: %w", ErrNotFound)
	}

	var resp struct {
		Results []MovieResult `json:"results"`
	}
	if err := c.doGET(ctx, "search_movie", "/search/movie", url.Values{"query": {query}}, &resp); err != nil {
		return nil, fmt.Errorf("failed to search movie %q: %w", query, err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("movie %q: %w", query, ErrNotFound)
	}
	return resp.Results, nil
}

// TVDetails retrieves a show by TMDB id
func (c *Client) TVDetails(ctx context.Context, showID int) (*TVDetails, error) {
	var details TVDetails
	path := fmt.Sprintf("/tv/%d", showID)
	if err := c.doGET(ctx, "tv_details", path, nil, &details); err != nil {
		return nil, fmt.Errorf("failed to get tv show %d: %w", showID, err)
	}
	return &details, nil
}

// SeasonDetails retrieves one season of a show with its episodes
func (c *Client) SeasonDetails(ctx context.Context, showID, season int) (*SeasonDetails, error) {
	var details SeasonDetails
	path := fmt.Sprintf("/tv/%d/season/%d", showID, season)
	if err := c.doGET(ctx, "season_details", path, nil, &details); err != nil {
		return nil, fmt.Errorf("failed to get season %d of tv show %d: %w", season, showID, err)
	}
	return &details, nil
}

// EpisodeTranslations retrieves the translated names of an episode
func (c *Client) EpisodeTranslations(ctx context.Context, showID, season, episode int) ([]Translation, error) {
	var resp struct {
		Translations []Translation `json:"translations"`
	}
	path := fmt.Sprintf("/tv/%d/season/%d/episode/%d/translations", showID, season, episode)
	if err := c.doGET(ctx, "episode_translations", path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get translations of S%02dE%02d of tv show %d: %w", season, episode, showID, err)
	}
	return resp.Translations, nil
}
