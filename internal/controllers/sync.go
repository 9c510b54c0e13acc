package controllers

import (
	"context"
	"fmt"

	"github.com/amaumene/nflxtrakt/internal/history"
	"github.com/amaumene/nflxtrakt/internal/models"
	"github.com/amaumene/nflxtrakt/internal/services/trakt"
	"github.com/sirupsen/logrus"
)

// Ledger remembers which watch events were already added to Trakt
type Ledger interface {
	HasEvent(key string) (bool, error)
	RecordEvents(events []*models.SyncedEvent) error
}

// SyncSummary counts the watch events of one sync
type SyncSummary struct {
	Episodes      int  `json:"episodes"`
	Movies        int  `json:"movies"`
	AlreadySynced int  `json:"already_synced"`
	Added         int  `json:"added"`
	DryRun        bool `json:"dry_run"`
}

// SyncController adds the reconciled watch events of a History to Trakt
type SyncController struct {
	ledger   Ledger
	adder    trakt.HistoryAdder
	pageSize int
	dryRun   bool
	logger   *logrus.Logger
}

// NewSyncController creates a new sync controller
func NewSyncController(ledger Ledger, adder trakt.HistoryAdder, pageSize int, dryRun bool, logger *logrus.Logger) *SyncController {
	return &SyncController{
		ledger:   ledger,
		adder:    adder,
		pageSize: pageSize,
		dryRun:   dryRun,
		logger:   logger,
	}
}

// Sync sends every episode and movie watch event that has a TMDB id and is not
// in the ledger yet. Events are recorded once Trakt accepted their page.
func (c *SyncController) Sync(ctx context.Context, h *history.History) (SyncSummary, error) {
	c.logger.Info("Starting Trakt sync")
	summary := SyncSummary{DryRun: c.dryRun}

	pending := make(map[string]*models.SyncedEvent)
	batch := trakt.NewHistoryBatch(c.adder, c.pageSize, c.dryRun, c.logger)
	batch.OnFlush(func(page trakt.SyncHistoryRequest, resp *trakt.SyncHistoryResponse) error {
		return c.recordPage(page, resp, pending)
	})

	// queue returns false when the event is already synced or queued
	queue := func(event *models.SyncedEvent) (bool, error) {
		if _, ok := pending[event.Key]; ok {
			return false, nil
		}
		synced, err := c.ledger.HasEvent(event.Key)
		if err != nil {
			return false, fmt.Errorf("failed to check ledger: %w", err)
		}
		if synced {
			summary.AlreadySynced++
			return false, nil
		}
		pending[event.Key] = event
		return true, nil
	}

	for _, show := range h.Shows() {
		for _, season := range show.Seasons() {
			for _, episode := range season.Episodes() {
				tmdbID, ok := episode.ExternalID()
				if !ok {
					continue
				}
				title := fmt.Sprintf("%s: %s: %s", show.Name(), season.Key(), episode.Name())
				for _, watchedAt := range episode.WatchedAt() {
					queued, err := queue(models.NewSyncedEvent(models.EventKindEpisode, tmdbID, title, watchedAt))
					if err != nil {
						return summary, err
					}
					if !queued {
						continue
					}
					summary.Episodes++
					if err := batch.AddEpisode(ctx, trakt.SyncEpisode{
						WatchedAt: watchedAt,
						IDs:       trakt.SyncIDs{TMDB: tmdbID},
					}); err != nil {
						return summary, err
					}
				}
			}
		}
	}

	for _, movie := range h.Movies() {
		tmdbID, ok := movie.ExternalID()
		if !ok {
			continue
		}
		for _, watchedAt := range movie.WatchedAt() {
			queued, err := queue(models.NewSyncedEvent(models.EventKindMovie, tmdbID, movie.Name(), watchedAt))
			if err != nil {
				return summary, err
			}
			if !queued {
				continue
			}
			summary.Movies++
			if err := batch.AddMovie(ctx, trakt.SyncMovie{
				Title:     movie.Name(),
				WatchedAt: watchedAt,
				IDs:       trakt.SyncIDs{TMDB: tmdbID},
			}); err != nil {
				return summary, err
			}
		}
	}

	if err := batch.Flush(ctx); err != nil {
		return summary, err
	}
	summary.Added = batch.Added()

	c.logger.WithFields(logrus.Fields{
		"episodes":       summary.Episodes,
		"movies":         summary.Movies,
		"already_synced": summary.AlreadySynced,
		"added":          summary.Added,
		"dry_run":        summary.DryRun,
	}).Info("Trakt sync completed")

	return summary, nil
}

// recordPage stores the events of an accepted page in the ledger. Items Trakt
// reported as not found stay out of it so later runs send them again.
func (c *SyncController) recordPage(page trakt.SyncHistoryRequest, resp *trakt.SyncHistoryResponse, pending map[string]*models.SyncedEvent) error {
	notFound := make(map[string]bool)
	if resp != nil {
		for _, episode := range resp.NotFound.Episodes {
			notFound[models.EventKey(models.EventKindEpisode, episode.IDs.TMDB, episode.WatchedAt)] = true
		}
		for _, movie := range resp.NotFound.Movies {
			notFound[models.EventKey(models.EventKindMovie, movie.IDs.TMDB, movie.WatchedAt)] = true
		}
	}

	events := make([]*models.SyncedEvent, 0, page.Len())
	collect := func(kind models.EventKind, tmdbID int, watchedAt string) {
		key := models.EventKey(kind, tmdbID, watchedAt)
		if notFound[key] {
			c.logger.WithField("event", key).Warn("Trakt could not find watch event, it will be retried")
			return
		}
		if event, ok := pending[key]; ok {
			events = append(events, event)
		}
	}
	for _, episode := range page.Episodes {
		collect(models.EventKindEpisode, episode.IDs.TMDB, episode.WatchedAt)
	}
	for _, movie := range page.Movies {
		collect(models.EventKindMovie, movie.IDs.TMDB, movie.WatchedAt)
	}

	if err := c.ledger.RecordEvents(events); err != nil {
		return fmt.Errorf("failed to record synced events: %w", err)
	}
	return nil
}
