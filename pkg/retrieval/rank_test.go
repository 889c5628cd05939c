package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaprag/snaprag/pkg/storage"
	"github.com/snaprag/snaprag/pkg/types"
)

func TestRecencyFactorAtAgeZero(t *testing.T) {
	assert.Equal(t, 1.0, recencyFactor(0))
}

func TestRecencyFactorAtOneYearIsFloor(t *testing.T) {
	assert.Equal(t, 0.5, recencyFactor(maxRecencyAge))
}

func TestRecencyFactorBeyondOneYearStaysAtFloor(t *testing.T) {
	assert.Equal(t, 0.5, recencyFactor(2*maxRecencyAge))
}

func TestRecencyFactorHalfwayIsMidpoint(t *testing.T) {
	assert.InDelta(t, 0.75, recencyFactor(maxRecencyAge/2), 0.001)
}

func TestRankCastsForUserOrdersByComposite(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()

	store := &fakeCastStore{
		userSemantic: []storage.CastHit{
			{Cast: types.Cast{MessageHash: "0xold", Text: "a reasonably long cast about onchain stuff", Timestamp: now.Add(-2 * maxRecencyAge)}, Similarity: 0.95},
			{Cast: types.Cast{MessageHash: "0xnew", Text: "a reasonably long cast about onchain stuff", Timestamp: now}, Similarity: 0.95},
		},
	}
	eng := New(store, &fakeEmbedder{dim: 3}, 0)

	ranked, err := eng.RankCastsForUser(context.Background(), 42, "onchain", 10, now)

	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "0xnew", ranked[0].Cast.Cast.MessageHash, "identical similarity and length should favor the more recent cast")
}

func TestRankCastsForUserRespectsK(t *testing.T) {
	now := time.Now().UTC()
	hits := make([]storage.CastHit, 5)
	for i := range hits {
		hits[i] = storage.CastHit{Cast: types.Cast{MessageHash: "x", Text: "hello world", Timestamp: now}, Similarity: 0.5}
	}
	store := &fakeCastStore{userSemantic: hits}
	eng := New(store, &fakeEmbedder{dim: 3}, 0)

	ranked, err := eng.RankCastsForUser(context.Background(), 1, "q", 2, now)

	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}
