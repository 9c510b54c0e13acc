package controllers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amaumene/nflxtrakt/internal/metrics"
	"github.com/amaumene/nflxtrakt/internal/services/netflix"
	"github.com/sirupsen/logrus"
)

// RunSummary describes one import, reconcile and sync run
type RunSummary struct {
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Error      string           `json:"error,omitempty"`
	Import     ImportSummary    `json:"import"`
	Reconcile  ReconcileSummary `json:"reconcile"`
	Sync       SyncSummary      `json:"sync"`
}

// Pipeline reads the export file and runs import, reconcile and sync in order
type Pipeline struct {
	historyFile string
	delimiter   rune
	importCtrl  *ImportController
	reconcile   *ReconcileController
	syncCtrl    *SyncController
	logger      *logrus.Logger

	mu      sync.RWMutex
	lastRun *RunSummary
}

// NewPipeline creates a new pipeline
func NewPipeline(historyFile string, delimiter rune, importCtrl *ImportController, reconcile *ReconcileController, syncCtrl *SyncController, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		historyFile: historyFile,
		delimiter:   delimiter,
		importCtrl:  importCtrl,
		reconcile:   reconcile,
		syncCtrl:    syncCtrl,
		logger:      logger,
	}
}

// Run executes one full run. The summary is kept for LastRun even when the run fails.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	defer metrics.ObserveRun(start)

	summary := &RunSummary{StartedAt: start}
	err := p.run(ctx, summary)
	summary.FinishedAt = time.Now()
	if err != nil {
		summary.Error = err.Error()
	}

	p.mu.Lock()
	p.lastRun = summary
	p.mu.Unlock()

	p.logger.WithFields(logrus.Fields{
		"duration": summary.FinishedAt.Sub(start).Round(time.Millisecond).String(),
		"added":    summary.Sync.Added,
	}).Info("Run finished")

	return summary, err
}

func (p *Pipeline) run(ctx context.Context, summary *RunSummary) error {
	entries, err := netflix.ReadFile(p.historyFile, p.delimiter)
	if err != nil {
		return fmt.Errorf("failed to read viewing history: %w", err)
	}

	h, importSummary := p.importCtrl.Import(entries)
	summary.Import = importSummary

	reconcileSummary, err := p.reconcile.Reconcile(ctx, h)
	summary.Reconcile = reconcileSummary
	if err != nil {
		return fmt.Errorf("failed to reconcile with TMDB: %w", err)
	}

	syncSummary, err := p.syncCtrl.Sync(ctx, h)
	summary.Sync = syncSummary
	if err != nil {
		return fmt.Errorf("failed to sync to Trakt: %w", err)
	}
	return nil
}

// LastRun returns the summary of the most recent run, or nil before the first one
func (p *Pipeline) LastRun() *RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRun
}
