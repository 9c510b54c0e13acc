package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amaumene/nflxtrakt/internal/controllers"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingRunner struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
}

func (r *blockingRunner) Run(ctx context.Context) (*controllers.RunSummary, error) {
	r.calls.Add(1)
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return nil, r.err
	}
	return &controllers.RunSummary{}, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRunSyncSkipsOverlappingRuns(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	s := NewScheduler(runner, "@every 1h", quietLogger())

	done := make(chan struct{})
	go func() {
		s.runSync()
		close(done)
	}()
	<-runner.started
	assert.True(t, s.Running())

	// returns immediately while the first run holds the flag
	s.runSync()
	assert.Equal(t, int32(1), runner.calls.Load())

	close(runner.release)
	<-done
	assert.False(t, s.Running())
}

func TestRunSyncSurvivesErrors(t *testing.T) {
	runner := &blockingRunner{err: errors.New("boom")}
	s := NewScheduler(runner, "@every 1h", quietLogger())

	s.runSync()
	s.runSync()
	assert.Equal(t, int32(2), runner.calls.Load())
	assert.False(t, s.Running())
}

func TestStartRunsImmediately(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 1)}
	s := NewScheduler(runner, "@every 1h", quietLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	select {
	case <-runner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("initial run did not start")
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := NewScheduler(&blockingRunner{}, "not a schedule", quietLogger())
	assert.Error(t, s.Start())
}

func TestStopWaitsForInitialRun(t *testing.T) {
	runner := &blockingRunner{started: make(chan struct{}, 1), release: make(chan struct{})}
	s := NewScheduler(runner, "@every 1h", quietLogger())
	require.NoError(t, s.Start())
	<-runner.started

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the initial run was still in progress")
	case <-time.After(100 * time.Millisecond):
	}

	close(runner.release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the initial run finished")
	}
	assert.False(t, s.Running())
}
