package trakt

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdder struct {
	requests []SyncHistoryRequest
	err      error
}

func (f *fakeAdder) AddToHistory(ctx context.Context, request SyncHistoryRequest) (*SyncHistoryResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.requests = append(f.requests, request)
	resp := &SyncHistoryResponse{}
	resp.Added.Movies = len(request.Movies)
	resp.Added.Episodes = len(request.Episodes)
	return resp, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestHistoryBatchPages(t *testing.T) {
	ctx := context.Background()
	adder := &fakeAdder{}
	batch := NewHistoryBatch(adder, 2, false, quietLogger())

	var flushed []int
	batch.OnFlush(func(page SyncHistoryRequest, resp *SyncHistoryResponse) error {
		require.NotNil(t, resp)
		flushed = append(flushed, page.Len())
		return nil
	})

	require.NoError(t, batch.AddEpisode(ctx, SyncEpisode{IDs: SyncIDs{TMDB: 1}}))
	assert.Empty(t, adder.requests)
	require.NoError(t, batch.AddMovie(ctx, SyncMovie{IDs: SyncIDs{TMDB: 2}}))
	assert.Len(t, adder.requests, 1)
	require.NoError(t, batch.AddEpisode(ctx, SyncEpisode{IDs: SyncIDs{TMDB: 3}}))
	assert.Equal(t, 1, batch.Pending())

	require.NoError(t, batch.Flush(ctx))
	assert.Len(t, adder.requests, 2)
	assert.Equal(t, 0, batch.Pending())
	assert.Equal(t, 3, batch.Added())
	assert.Equal(t, []int{2, 1}, flushed)

	// nothing left to send
	require.NoError(t, batch.Flush(ctx))
	assert.Len(t, adder.requests, 2)
}

func TestHistoryBatchDryRun(t *testing.T) {
	ctx := context.Background()
	adder := &fakeAdder{}
	batch := NewHistoryBatch(adder, 1000, true, quietLogger())
	batch.OnFlush(func(SyncHistoryRequest, *SyncHistoryResponse) error {
		t.Error("dry run pages must not be reported as synced")
		return nil
	})

	require.NoError(t, batch.AddMovie(ctx, SyncMovie{IDs: SyncIDs{TMDB: 2}}))
	require.NoError(t, batch.Flush(ctx))
	assert.Empty(t, adder.requests)
	assert.Equal(t, 0, batch.Added())
}

func TestHistoryBatchError(t *testing.T) {
	ctx := context.Background()
	adder := &fakeAdder{err: errors.New("boom")}
	batch := NewHistoryBatch(adder, 0, false, quietLogger())

	require.NoError(t, batch.AddMovie(ctx, SyncMovie{IDs: SyncIDs{TMDB: 2}}))
	assert.Error(t, batch.Flush(ctx))
}
