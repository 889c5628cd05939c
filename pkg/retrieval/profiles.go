package retrieval

import (
	"context"
	"fmt"

	"github.com/snaprag/snaprag/pkg/storage"
)

// SearchProfiles runs a profile search in the given mode. Storage's
// HybridSearchProfiles ranks by keyword similarity only and ignores the
// query embedding, so ModeSemantic (which passes no text) does not rank
// by the query at all, and ModeHybrid ranks the same as ModeKeyword.
func (e *Engine) SearchProfiles(ctx context.Context, mode Mode, query string, k int) ([]storage.ProfileHit, error) {
	switch mode {
	case ModeSemantic:
		vec, err := e.embedQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		return e.store.HybridSearchProfiles(ctx, vec, "", k)

	case ModeKeyword:
		return e.store.HybridSearchProfiles(ctx, nil, query, k)

	case ModeHybrid:
		vec, err := e.embedQuery(ctx, query)
		if err != nil {
			return nil, err
		}
		return e.store.HybridSearchProfiles(ctx, vec, query, k)

	default:
		return nil, fmt.Errorf("retrieval: unknown search mode %q", mode)
	}
}
