package models

import "time"

// SyncedEvent is a watch event that has been added to the Trakt history
type SyncedEvent struct {
	Key       string    `boltholdKey:"Key"` // kind:tmdbid:watchedAt
	Kind      EventKind `boltholdIndex:"Kind"`
	TMDBID    int
	Title     string
	WatchedAt string
	SyncedAt  time.Time
}

// NewSyncedEvent creates an event with its key filled in
func NewSyncedEvent(kind EventKind, tmdbID int, title, watchedAt string) *SyncedEvent {
	return &SyncedEvent{
		Key:       EventKey(kind, tmdbID, watchedAt),
		Kind:      kind,
		TMDBID:    tmdbID,
		Title:     title,
		WatchedAt: watchedAt,
	}
}
