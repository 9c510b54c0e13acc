package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// Database wraps the bolthold store holding the sync ledger
type Database struct {
	store *bolthold.Store
}

// NewDatabase opens (or creates) the ledger database
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// HasEvent reports whether the watch event was already synced
func (db *Database) HasEvent(key string) (bool, error) {
	var event SyncedEvent
	err := db.store.Get(key, &event)
	if errors.Is(err, bolthold.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecordEvents stores synced watch events in one transaction. Existing keys are overwritten.
func (db *Database) RecordEvents(events []*SyncedEvent) error {
	now := time.Now()
	return db.store.Bolt().Update(func(tx *bbolt.Tx) error {
		for _, event := range events {
			event.SyncedAt = now
			if err := db.store.TxUpsert(tx, event.Key, event); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountEvents counts synced events of a kind
func (db *Database) CountEvents(kind EventKind) (int, error) {
	n, err := db.store.Count(&SyncedEvent{}, bolthold.Where("Kind").Eq(kind).Index("Kind"))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// LastSyncedAt returns the time of the most recent sync, nil when nothing was synced yet
func (db *Database) LastSyncedAt() (*time.Time, error) {
	var events []SyncedEvent
	err := db.store.Find(&events, (&bolthold.Query{}).SortBy("SyncedAt").Reverse().Limit(1))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0].SyncedAt, nil
}

// GetEvents returns all synced events of a kind
func (db *Database) GetEvents(kind EventKind) ([]*SyncedEvent, error) {
	var events []*SyncedEvent
	err := db.store.Find(&events, bolthold.Where("Kind").Eq(kind).Index("Kind"))
	return events, err
}
