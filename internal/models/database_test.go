package models

import (
	"path/filepath"
	"testing"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndQueryEvents(t *testing.T) {
	db := newTestDatabase(t)

	last, err := db.LastSyncedAt()
	if err != nil {
		t.Fatalf("Failed to get last sync: %v", err)
	}
	if last != nil {
		t.Errorf("Expected no last sync on empty ledger, got %v", last)
	}

	events := []*SyncedEvent{
		NewSyncedEvent(EventKindEpisode, 62085, "Fly", "2021-02-05T20:15:00.00Z"),
		NewSyncedEvent(EventKindEpisode, 62086, "Abiquiú", "2021-02-06T20:15:00.00Z"),
		NewSyncedEvent(EventKindMovie, 274857, "King Arthur: Legend of the Sword", "2021-01-17T20:15:00.00Z"),
	}
	if err := db.RecordEvents(events); err != nil {
		t.Fatalf("Failed to record events: %v", err)
	}

	has, err := db.HasEvent(EventKey(EventKindEpisode, 62085, "2021-02-05T20:15:00.00Z"))
	if err != nil {
		t.Fatalf("Failed to check event: %v", err)
	}
	if !has {
		t.Error("Expected recorded episode event to exist")
	}

	has, err = db.HasEvent(EventKey(EventKindEpisode, 62085, "2021-02-06T20:15:00.00Z"))
	if err != nil {
		t.Fatalf("Failed to check event: %v", err)
	}
	if has {
		t.Error("Different timestamp should not be recorded")
	}

	episodes, err := db.CountEvents(EventKindEpisode)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if episodes != 2 {
		t.Errorf("Expected 2 episode events, got %d", episodes)
	}

	movies, err := db.GetEvents(EventKindMovie)
	if err != nil {
		t.Fatalf("Failed to get events: %v", err)
	}
	if len(movies) != 1 || movies[0].TMDBID != 274857 {
		t.Errorf("Unexpected movie events %+v", movies)
	}

	last, err = db.LastSyncedAt()
	if err != nil {
		t.Fatalf("Failed to get last sync: %v", err)
	}
	if last == nil || last.IsZero() {
		t.Error("Expected last sync time after recording")
	}
}

func TestRecordEventsIsIdempotent(t *testing.T) {
	db := newTestDatabase(t)

	event := NewSyncedEvent(EventKindMovie, 1, "Roma", "2019-01-01T20:15:00.00Z")
	for i := 0; i < 2; i++ {
		if err := db.RecordEvents([]*SyncedEvent{event}); err != nil {
			t.Fatalf("Failed to record events: %v", err)
		}
	}

	count, err := db.CountEvents(EventKindMovie)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 movie event, got %d", count)
	}
}

func TestEventKey(t *testing.T) {
	got := EventKey(EventKindEpisode, 42, "2021-02-05T20:15:00.00Z")
	if got != "episode:42:2021-02-05T20:15:00.00Z" {
		t.Errorf("Unexpected key %s", got)
	}
}
