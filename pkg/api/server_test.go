package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaprag/snaprag/pkg/retrieval"
	"github.com/snaprag/snaprag/pkg/storage"
	"github.com/snaprag/snaprag/pkg/types"
)

type fakeStore struct {
	storage.Store
	profile *types.Profile
}

func (f *fakeStore) GetProfile(_ context.Context, fid uint64) (*types.Profile, error) {
	if f.profile == nil {
		return nil, storage.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeStore) AllSyncProgress(_ context.Context) ([]types.SyncProgress, error) {
	return []types.SyncProgress{{ShardID: 1, LastProcessedHeight: 42, Status: types.SyncStatusSyncing}}, nil
}

func (f *fakeStore) CountCastsWithoutEmbeddings(_ context.Context) (int64, error) {
	return 7, nil
}

func (f *fakeStore) KeywordSearchCasts(_ context.Context, _ string, k int) ([]storage.CastHit, error) {
	return []storage.CastHit{{Cast: types.Cast{MessageHash: "0x1", Text: "hi"}, Similarity: 0.5}}, nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0, 0, 0}
	}
	return out, nil
}

func newTestServer() *Server {
	store := &fakeStore{profile: &types.Profile{FID: 1, DisplayName: "alice"}}
	eng := retrieval.New(store, fakeEmbedder{}, 0)
	return NewServer(store, eng, "")
}

func TestHandleGetProfileFound(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/profiles/1", nil)
	req.SetPathValue("fid", "1")
	w := httptest.NewRecorder()

	srv.handleGetProfile(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got types.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "alice", got.DisplayName)
}

func TestHandleGetProfileNotFound(t *testing.T) {
	store := &fakeStore{}
	eng := retrieval.New(store, fakeEmbedder{}, 0)
	srv := NewServer(store, eng, "")

	req := httptest.NewRequest(http.MethodGet, "/profiles/99", nil)
	req.SetPathValue("fid", "99")
	w := httptest.NewRecorder()

	srv.handleGetProfile(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleGetProfileBadFID(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/profiles/notanumber", nil)
	req.SetPathValue("fid", "notanumber")
	w := httptest.NewRecorder()

	srv.handleGetProfile(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleStats(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()

	srv.handleStats(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got statsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.CastsWithoutEmbedding)
	require.Len(t, got.Shards, 1)
	assert.Equal(t, uint32(1), got.Shards[0].ShardID)
}

func TestHandleSearchCastsRequiresQuery(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/search/casts", nil)
	w := httptest.NewRecorder()

	srv.handleSearchCasts(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearchCastsKeywordMode(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/search/casts?mode=keyword&q=hi", nil)
	w := httptest.NewRecorder()

	srv.handleSearchCasts(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []storage.CastHit
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "0x1", got[0].Cast.MessageHash)
}
