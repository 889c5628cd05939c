// Package retrieval answers cast/profile search queries over three
// modes (semantic, keyword, hybrid) and ranks a single user's own
// casts for the "ask as this user" feature. It is a thin layer over
// pkg/storage and pkg/embedder: storage returns raw (similarity, text,
// timestamp) tuples, and every scoring decision — RRF fusion, the
// per-user recency composite — lives here.
package retrieval

import (
	"context"
	"fmt"

	"github.com/snaprag/snaprag/pkg/embedder"
	"github.com/snaprag/snaprag/pkg/storage"
)

// Mode selects how a search query is executed.
type Mode string

const (
	ModeSemantic Mode = "semantic"
	ModeKeyword  Mode = "keyword"
	ModeHybrid   Mode = "hybrid"
)

// DefaultRRFConstant is k in score(doc) = sum(1 / (k + rank)).
const DefaultRRFConstant = 60

// DefaultMinSimilarity is the floor applied to semantic search when
// the caller doesn't supply one.
const DefaultMinSimilarity = 0.0

// Engine answers search queries by combining a Store's search methods
// with an Embedder for query-text vectorization.
type Engine struct {
	store       storage.Store
	embedder    embedder.Embedder
	rrfConstant int
}

// New builds an Engine. rrfConstant <= 0 uses DefaultRRFConstant.
func New(store storage.Store, emb embedder.Embedder, rrfConstant int) *Engine {
	if rrfConstant <= 0 {
		rrfConstant = DefaultRRFConstant
	}
	return &Engine{store: store, embedder: emb, rrfConstant: rrfConstant}
}

// embedQuery turns a query string into a single vector via the
// configured Embedder. Semantic and hybrid modes both need this.
func (e *Engine) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if e.embedder == nil {
		return nil, fmt.Errorf("retrieval: no embedder configured for semantic search")
	}
	vecs, err := e.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("retrieval: embed query: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("retrieval: embedder returned no vectors")
	}
	return vecs[0], nil
}
