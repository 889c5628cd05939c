package embedder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/storage"
	"github.com/snaprag/snaprag/pkg/types"
)

// fakeEmbedder returns a fixed-length zero vector per input text.
type fakeEmbedder struct {
	dim       int
	failOn    string
	callCount int
	mu        sync.Mutex
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.callCount++
	f.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, t := range texts {
		if f.failOn != "" && t == f.failOn {
			return nil, assertErr{}
		}
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

type assertErr struct{}

func (assertErr) Error() string { return "embed failed" }

// fakeBackfillStore embeds storage.Store so it structurally satisfies
// the interface; only the methods Backfill calls are overridden.
type fakeBackfillStore struct {
	storage.Store
	pages      [][]types.Cast
	pageCalls  int
	upserted   []types.CastEmbedding
	mu         sync.Mutex
}

func (f *fakeBackfillStore) CastsMissingEmbeddings(_ context.Context, _ int, _ *int64) ([]types.Cast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pageCalls >= len(f.pages) {
		return nil, nil
	}
	page := f.pages[f.pageCalls]
	f.pageCalls++
	return page, nil
}

func (f *fakeBackfillStore) UpsertCastEmbeddings(_ context.Context, embeddings []types.CastEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, embeddings...)
	return nil
}

func TestBackfillSkipsEmptyTextAndEmbedsTheRest(t *testing.T) {
	now := time.Unix(2000, 0).UTC()
	casts := []types.Cast{
		{MessageHash: "0x1", FID: 1, Text: "hello", Timestamp: now},
		{MessageHash: "0x2", FID: 2, Text: "", Timestamp: now.Add(-time.Second)},
		{MessageHash: "0x3", FID: 3, Text: "world", Timestamp: now.Add(-2 * time.Second)},
	}
	store := &fakeBackfillStore{pages: [][]types.Cast{casts}}
	emb := &fakeEmbedder{dim: 4}
	cfg := config.EmbeddingsConfig{BatchSize: 10, ParallelTasks: 2}

	stats, err := Backfill(context.Background(), store, emb, cfg)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Success)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 0, stats.Failed)
	assert.Len(t, store.upserted, 2)
}

func TestBackfillCountsEmbedFailuresWithoutAborting(t *testing.T) {
	now := time.Unix(3000, 0).UTC()
	casts := []types.Cast{
		{MessageHash: "0x1", FID: 1, Text: "ok", Timestamp: now},
		{MessageHash: "0x2", FID: 2, Text: "bad", Timestamp: now.Add(-time.Second)},
	}
	store := &fakeBackfillStore{pages: [][]types.Cast{casts}}
	emb := &fakeEmbedder{dim: 4, failOn: "bad"}
	cfg := config.EmbeddingsConfig{BatchSize: 10, ParallelTasks: 2}

	stats, err := Backfill(context.Background(), store, emb, cfg)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Success)
	assert.Equal(t, 1, stats.Failed)
}

func TestBackfillStopsWhenNoPagesRemain(t *testing.T) {
	store := &fakeBackfillStore{pages: nil}
	emb := &fakeEmbedder{dim: 4}
	cfg := config.EmbeddingsConfig{BatchSize: 10, ParallelTasks: 2}

	stats, err := Backfill(context.Background(), store, emb, cfg)

	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}
