package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/amaumene/nflxtrakt/internal/controllers"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner runs one import, reconcile and sync pass
type Runner interface {
	Run(ctx context.Context) (*controllers.RunSummary, error)
}

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron     *cron.Cron
	runner   Runner
	schedule string
	running  atomic.Bool
	initial  sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *logrus.Logger
}

// NewScheduler creates a new scheduler running runner on a cron schedule
func NewScheduler(runner Runner, schedule string, logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:     cron.New(),
		runner:   runner,
		schedule: schedule,
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
	}
}

// Start starts the scheduler and triggers an immediate run
func (s *Scheduler) Start() error {
	s.logger.WithField("schedule", s.schedule).Info("Starting scheduler")

	if _, err := s.cron.AddFunc(s.schedule, s.runSync); err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.runSync()
	}()

	return nil
}

// Stop stops the scheduler, cancels a run in progress and waits for it to return
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cancel()
	<-s.cron.Stop().Done()
	s.initial.Wait()
}

// Running reports whether a run is in progress
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// runSync executes the sync job unless the previous one is still running
func (s *Scheduler) runSync() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("Previous run still in progress, skipping")
		return
	}
	defer s.running.Store(false)

	s.logger.Info("Running scheduled sync")
	summary, err := s.runner.Run(s.ctx)
	if err != nil {
		s.logger.WithError(err).Error("Sync job failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"lines": summary.Import.Lines,
		"added": summary.Sync.Added,
	}).Info("Sync job completed successfully")
}
