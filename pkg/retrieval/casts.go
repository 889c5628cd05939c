package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/snaprag/snaprag/pkg/storage"
)

// SearchCasts runs a cast search in the given mode. minSimilarity is
// only applied to the semantic leg; pass nil for no floor.
func (e *Engine) SearchCasts(ctx context.Context, mode Mode, query string, k int, minSimilarity *float64) ([]storage.CastHit, error) {
	switch mode {
	case ModeSemantic:
		vec, err := e.embedQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		return e.store.SemanticSearchCasts(ctx, vec, k, minSimilarity)

	case ModeKeyword:
		return e.store.KeywordSearchCasts(ctx, query, k)

	case ModeHybrid:
		vec, err := e.embedQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		semantic, err := e.store.SemanticSearchCasts(ctx, vec, k, minSimilarity)
		if err != nil {
			return nil, fmt.Errorf("retrieval: semantic leg: %w", err)
		}
		keyword, err := e.store.KeywordSearchCasts(ctx, query, k)
		if err != nil {
			return nil, fmt.Errorf("retrieval: keyword leg: %w", err)
		}
		return fuseCastHits(e.rrfConstant, k, semantic, keyword), nil

	default:
		return nil, fmt.Errorf("retrieval: unknown search mode %q", mode)
	}
}

// fuseCastHits combines independently-ranked cast result lists with
// Reciprocal Rank Fusion: score(doc) = sum(1 / (rrfConstant + rank)),
// rank 1-based within each list. Hits present in only one list still
// score, just lower. The Similarity on the returned hit is the highest
// raw similarity any list reported for it, purely for display — RRF
// itself is rank-only and ignores raw similarity magnitude.
func fuseCastHits(rrfConstant, k int, lists ...[]storage.CastHit) []storage.CastHit {
	type entry struct {
		hit   storage.CastHit
		score float64
	}
	byHash := make(map[string]*entry)
	order := make([]string, 0)

	for _, list := range lists {
		for rank, hit := range list {
			contribution := 1.0 / float64(rrfConstant+rank+1)
			if e, ok := byHash[hit.Cast.MessageHash]; ok {
				e.score += contribution
				if hit.Similarity > e.hit.Similarity {
					e.hit.Similarity = hit.Similarity
				}
			} else {
				byHash[hit.Cast.MessageHash] = &entry{hit: hit, score: contribution}
				order = append(order, hit.Cast.MessageHash)
			}
		}
	}

	fused := make([]*entry, 0, len(order))
	for _, hash := range order {
		fused = append(fused, byHash[hash])
	}
	sort.Slice(fused, func(i, j int) bool { return fused[i].score > fused[j].score })

	if k > 0 && len(fused) > k {
		fused = fused[:k]
	}

	out := make([]storage.CastHit, len(fused))
	for i, e := range fused {
		out[i] = e.hit
	}
	return out
}
