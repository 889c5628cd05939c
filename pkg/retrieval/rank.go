package retrieval

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/snaprag/snaprag/pkg/storage"
)

// maxRecencyAge is the age at which recencyFactor bottoms out at its
// floor; it decays linearly from 1.0 at age 0 to 0.5 at this age.
const maxRecencyAge = 365 * 24 * time.Hour

const recencyFloor = 0.5

// recencyFactor linearly decays from 1.0 at age 0 to 0.5 at
// maxRecencyAge, then floors at 0.5 for anything older.
func recencyFactor(age time.Duration) float64 {
	if age <= 0 {
		return 1.0
	}
	if age >= maxRecencyAge {
		return recencyFloor
	}
	fraction := float64(age) / float64(maxRecencyAge)
	return 1.0 - fraction*(1.0-recencyFloor)
}

// RankedCast is one of a user's own casts scored against a query.
type RankedCast struct {
	Cast  storage.CastHit
	Score float64
}

// RankCastsForUser scores fid's own casts against query for the "ask
// as this user" feature: similarity * ln(max(1, len(text))) *
// recencyFactor(age). now anchors the recency computation and must be
// supplied by the caller (the package may not call time.Now itself).
func (e *Engine) RankCastsForUser(ctx context.Context, fid uint64, query string, k int, now time.Time) ([]RankedCast, error) {
	vec, err := e.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	// Over-fetch from storage since the composite re-ranks by a
	// different score than raw cosine similarity; k alone may not
	// capture the eventual top-k once recency/length are applied.
	fetchK := k * 4
	if fetchK < k {
		fetchK = k
	}

	hits, err := e.store.SemanticSearchCastsForUser(ctx, fid, vec, fetchK)
	if err != nil {
		return nil, err
	}

	ranked := make([]RankedCast, 0, len(hits))
	for _, h := range hits {
		age := now.Sub(h.Cast.Timestamp)
		textLen := len(h.Cast.Text)
		if textLen < 1 {
			textLen = 1
		}
		score := h.Similarity * math.Log(float64(textLen)) * recencyFactor(age)
		ranked = append(ranked, RankedCast{Cast: h, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
