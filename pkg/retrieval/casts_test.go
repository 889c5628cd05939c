package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaprag/snaprag/pkg/storage"
	"github.com/snaprag/snaprag/pkg/types"
)

type fakeEmbedder struct {
	dim int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, f.dim)
	}
	return out, nil
}

type fakeCastStore struct {
	storage.Store
	semantic     []storage.CastHit
	keyword      []storage.CastHit
	userSemantic []storage.CastHit
}

func (f *fakeCastStore) SemanticSearchCastsForUser(_ context.Context, _ uint64, _ []float32, k int) ([]storage.CastHit, error) {
	return cap0(f.userSemantic, k), nil
}

func (f *fakeCastStore) SemanticSearchCasts(_ context.Context, _ []float32, k int, _ *float64) ([]storage.CastHit, error) {
	return cap0(f.semantic, k), nil
}

func (f *fakeCastStore) KeywordSearchCasts(_ context.Context, _ string, k int) ([]storage.CastHit, error) {
	return cap0(f.keyword, k), nil
}

func cap0(hits []storage.CastHit, k int) []storage.CastHit {
	if k > 0 && len(hits) > k {
		return hits[:k]
	}
	return hits
}

func hit(hash string, sim float64) storage.CastHit {
	return storage.CastHit{Cast: types.Cast{MessageHash: hash}, Similarity: sim}
}

func TestSearchCastsSemanticDelegatesToStore(t *testing.T) {
	store := &fakeCastStore{semantic: []storage.CastHit{hit("0x1", 0.9)}}
	eng := New(store, &fakeEmbedder{dim: 3}, 0)

	got, err := eng.SearchCasts(context.Background(), ModeSemantic, "q", 10, nil)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0x1", got[0].Cast.MessageHash)
}

func TestSearchCastsKeywordDelegatesToStore(t *testing.T) {
	store := &fakeCastStore{keyword: []storage.CastHit{hit("0x2", 0.4)}}
	eng := New(store, &fakeEmbedder{dim: 3}, 0)

	got, err := eng.SearchCasts(context.Background(), ModeKeyword, "q", 10, nil)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0x2", got[0].Cast.MessageHash)
}

func TestSearchCastsHybridFusesBothLegs(t *testing.T) {
	store := &fakeCastStore{
		semantic: []storage.CastHit{hit("0xA", 0.9), hit("0xB", 0.8)},
		keyword:  []storage.CastHit{hit("0xB", 0.7), hit("0xA", 0.5)},
	}
	eng := New(store, &fakeEmbedder{dim: 3}, 60)

	got, err := eng.SearchCasts(context.Background(), ModeHybrid, "q", 10, nil)

	require.NoError(t, err)
	require.Len(t, got, 2)
	// Both docs appear in both lists at symmetric ranks (0,1 and 1,0),
	// so their fused RRF scores tie; either order is correct, but both
	// hashes must be present exactly once.
	hashes := map[string]bool{got[0].Cast.MessageHash: true, got[1].Cast.MessageHash: true}
	assert.True(t, hashes["0xA"])
	assert.True(t, hashes["0xB"])
}

func TestFuseCastHitsRanksDocInBothListsHigher(t *testing.T) {
	semantic := []storage.CastHit{hit("0x1", 0.9), hit("0x2", 0.8)}
	keyword := []storage.CastHit{hit("0x2", 0.7)}

	fused := fuseCastHits(60, 10, semantic, keyword)

	require.Len(t, fused, 2)
	assert.Equal(t, "0x2", fused[0].Cast.MessageHash, "doc ranked in both lists should fuse to the top")
}

func TestFuseCastHitsRespectsK(t *testing.T) {
	semantic := []storage.CastHit{hit("0x1", 0.9), hit("0x2", 0.8), hit("0x3", 0.7)}

	fused := fuseCastHits(60, 2, semantic, nil)

	assert.Len(t, fused, 2)
}

func TestSearchCastsUnknownModeErrors(t *testing.T) {
	eng := New(&fakeCastStore{}, &fakeEmbedder{dim: 3}, 0)

	_, err := eng.SearchCasts(context.Background(), Mode("bogus"), "q", 10, nil)

	assert.Error(t, err)
}
