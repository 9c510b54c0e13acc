package trakt

import (
	"context"
	"fmt"

	"github.com/amaumene/nflxtrakt/internal/metrics"
	"github.com/sirupsen/logrus"
)

// HistoryAdder adds watch events to a Trakt history
type HistoryAdder interface {
	AddToHistory(ctx context.Context, request SyncHistoryRequest) (*SyncHistoryResponse, error)
}

// HistoryBatch buffers watch events and sends them in pages
type HistoryBatch struct {
	adder    HistoryAdder
	pageSize int
	dryRun   bool
	logger   *logrus.Logger
	pending  SyncHistoryRequest
	onFlush  func(SyncHistoryRequest, *SyncHistoryResponse) error

	added   int
	flushes int
}

// NewHistoryBatch creates a batch sending at most pageSize events per request.
// In dry run mode pages are logged and dropped.
func NewHistoryBatch(adder HistoryAdder, pageSize int, dryRun bool, logger *logrus.Logger) *HistoryBatch {
	if pageSize <= 0 {
		pageSize = 1000
	}
	return &HistoryBatch{
		adder:    adder,
		pageSize: pageSize,
		dryRun:   dryRun,
		logger:   logger,
	}
}

// OnFlush registers a callback run with every page Trakt accepted, along with
// Trakt's response listing the items it could not find
func (b *HistoryBatch) OnFlush(fn func(SyncHistoryRequest, *SyncHistoryResponse) error) {
	b.onFlush = fn
}

// AddEpisode queues an episode watch event, sending a page when it is full
func (b *HistoryBatch) AddEpisode(ctx context.Context, episode SyncEpisode) error {
	b.pending.Episodes = append(b.pending.Episodes, episode)
	return b.flushIfFull(ctx)
}

// AddMovie queues a movie watch event, sending a page when it is full
func (b *HistoryBatch) AddMovie(ctx context.Context, movie SyncMovie) error {
	b.pending.Movies = append(b.pending.Movies, movie)
	return b.flushIfFull(ctx)
}

// Pending returns the number of queued events
func (b *HistoryBatch) Pending() int {
	return b.pending.Len()
}

// Added returns the number of events Trakt reported as added
func (b *HistoryBatch) Added() int {
	return b.added
}

func (b *HistoryBatch) flushIfFull(ctx context.Context) error {
	if b.pending.Len() < b.pageSize {
		return nil
	}
	return b.Flush(ctx)
}

// Flush sends all queued events
func (b *HistoryBatch) Flush(ctx context.Context) error {
	if b.pending.Len() == 0 {
		return nil
	}

	page := b.pending
	b.pending = SyncHistoryRequest{}
	b.flushes++

	if b.dryRun {
		b.logger.WithFields(logrus.Fields{
			"page":     b.flushes,
			"movies":   len(page.Movies),
			"episodes": len(page.Episodes),
		}).Info("Dry run, skipping Trakt sync")
		return nil
	}

	resp, err := b.adder.AddToHistory(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to sync page %d: %w", b.flushes, err)
	}

	b.added += resp.Added.Movies + resp.Added.Episodes
	metrics.RecordTraktItems("movie", resp.Added.Movies)
	metrics.RecordTraktItems("episode", resp.Added.Episodes)
	b.logger.WithFields(logrus.Fields{
		"page":               b.flushes,
		"movies_added":       resp.Added.Movies,
		"episodes_added":     resp.Added.Episodes,
		"movies_not_found":   len(resp.NotFound.Movies),
		"episodes_not_found": len(resp.NotFound.Episodes),
	}).Info("Added watch events to Trakt history")

	if b.onFlush != nil {
		if err := b.onFlush(page, resp); err != nil {
			return fmt.Errorf("failed to process synced page %d: %w", b.flushes, err)
		}
	}
	return nil
}
