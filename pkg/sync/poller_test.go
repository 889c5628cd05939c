package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaprag/snaprag/pkg/batch"
	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/shardrpc"
	"github.com/snaprag/snaprag/pkg/storage"
	"github.com/snaprag/snaprag/pkg/types"
)

// fakeClient serves a single fixed set of chunks regardless of the
// requested range, then closes both channels — enough to drive one
// pollOnce cycle deterministically.
type fakeClient struct {
	chunks []shardrpc.ShardChunk
}

func (f *fakeClient) GetBlocks(_ context.Context, _ uint32, _ uint64, _ *uint64) (<-chan shardrpc.ShardChunk, <-chan error) {
	chunkCh := make(chan shardrpc.ShardChunk, len(f.chunks))
	errCh := make(chan error)
	for _, c := range f.chunks {
		chunkCh <- c
	}
	close(chunkCh)
	close(errCh)
	return chunkCh, errCh
}

func (f *fakeClient) GetBlockRange(_ context.Context, _ uint32) (uint64, uint64, error) {
	return 0, 0, nil
}

func (f *fakeClient) Close() error { return nil }

// fakeStore embeds storage.Store so it structurally satisfies the
// interface without stubbing every read method this test never
// exercises; only the methods pollOnce actually calls are overridden.
type fakeStore struct {
	storage.Store
	mu         sync.Mutex
	highWater  uint64
	flushed    []*batch.Batch
	advancedTo uint64
	statuses   []types.SyncStatus
}

func (f *fakeStore) GetSyncHighWater(_ context.Context, _ uint32) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.highWater, nil
}

func (f *fakeStore) FlushBatch(_ context.Context, b *batch.Batch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushed = append(f.flushed, b)
	return nil
}

func (f *fakeStore) AdvanceSyncHighWater(_ context.Context, _ uint32, height uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.advancedTo = height
	f.highWater = height
	return nil
}

func (f *fakeStore) SetSyncStatus(_ context.Context, _ uint32, status types.SyncStatus, _ *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	return nil
}

func rawJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestPollOnceFlushesAndAdvancesHighWater(t *testing.T) {
	chunk := shardrpc.ShardChunk{
		Header: shardrpc.BlockHeader{BlockNumber: 42, Timestamp: 1000},
		Transactions: []shardrpc.Transaction{
			{
				FID: 99,
				UserMessages: []shardrpc.UserMessage{
					{
						Hash: "0xAA",
						Data: shardrpc.MessageData{
							Type:      1,
							FID:       99,
							Timestamp: 1000,
							Body:      rawJSON(t, map[string]any{"text": "hello"}),
						},
					},
				},
			},
		},
	}

	client := &fakeClient{chunks: []shardrpc.ShardChunk{chunk}}
	store := &fakeStore{highWater: 0}
	cfg := config.SyncConfig{BatchSize: 100, SyncIntervalMS: 10}

	p := NewPoller(1, client, store, cfg)

	advanced, err := p.pollOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, advanced)
	assert.Equal(t, uint64(42), store.advancedTo)
	require.Len(t, store.flushed, 1)
	assert.Len(t, store.flushed[0].Casts, 1)
	assert.Equal(t, "hello", store.flushed[0].Casts[0].Text)
	assert.Contains(t, store.statuses, types.SyncStatusSyncing)
}

func TestPollOnceEmptyRangeDoesNotAdvance(t *testing.T) {
	client := &fakeClient{}
	store := &fakeStore{highWater: 10}
	cfg := config.SyncConfig{BatchSize: 100, SyncIntervalMS: 10}

	p := NewPoller(1, client, store, cfg)
	advanced, err := p.pollOnce(context.Background())

	require.NoError(t, err)
	assert.False(t, advanced)
	assert.Empty(t, store.flushed)
	assert.Equal(t, uint64(10), store.highWater)
}

func TestPollerStartStop(t *testing.T) {
	client := &fakeClient{}
	store := &fakeStore{}
	cfg := config.SyncConfig{BatchSize: 100, SyncIntervalMS: 5}

	p := NewPoller(7, client, store, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	p.Stop()
}
