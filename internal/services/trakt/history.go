package trakt

import (
	"context"
	"fmt"
)

// SyncHistoryRequest represents the request body for /sync/history
type SyncHistoryRequest struct {
	Movies   []SyncMovie   `json:"movies,omitempty"`
	Episodes []SyncEpisode `json:"episodes,omitempty"`
}

// Len returns the number of watch events in the request
func (r SyncHistoryRequest) Len() int {
	return len(r.Movies) + len(r.Episodes)
}

// SyncMovie is a movie watch event
type SyncMovie struct {
	Title     string  `json:"title,omitempty"`
	WatchedAt string  `json:"watched_at,omitempty"` // ISO 8601 format
	IDs       SyncIDs `json:"ids"`
}

// SyncEpisode is an episode watch event, identified by the episode's own ids
type SyncEpisode struct {
	WatchedAt string  `json:"watched_at,omitempty"` // ISO 8601 format
	IDs       SyncIDs `json:"ids"`
}

// SyncIDs holds IDs for sync operations
type SyncIDs struct {
	Trakt int    `json:"trakt,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
	TVDB  int    `json:"tvdb,omitempty"`
}

// SyncHistoryResponse represents the response from /sync/history
type SyncHistoryResponse struct {
	Added struct {
		Movies   int `json:"movies"`
		Episodes int `json:"episodes"`
	} `json:"added"`
	NotFound struct {
		Movies   []SyncMovie   `json:"movies"`
		Episodes []SyncEpisode `json:"episodes"`
	} `json:"not_found"`
}

// AddToHistory adds movies and/or episodes to the user's watch history on Trakt
func (c *Client) AddToHistory(ctx context.Context, request SyncHistoryRequest) (*SyncHistoryResponse, error) {
	var resp SyncHistoryResponse
	if err := c.doRequest(ctx, "POST", "/sync/history", request, &resp); err != nil {
		return nil, fmt.Errorf("failed to add to history: %w", err)
	}
	return &resp, nil
}
