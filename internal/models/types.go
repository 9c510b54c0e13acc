package models

import "fmt"

// EventKind is the kind of item a watch event belongs to
type EventKind string

const (
	EventKindMovie   EventKind = "movie"
	EventKindEpisode EventKind = "episode"
)

// EventKey builds the ledger key of a watch event
func EventKey(kind EventKind, tmdbID int, watchedAt string) string {
	return fmt.Sprintf("%s:%d:%s", kind, tmdbID, watchedAt)
}
