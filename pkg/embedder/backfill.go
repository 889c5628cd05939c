package embedder

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/metrics"
	"github.com/snaprag/snaprag/pkg/storage"
	"github.com/snaprag/snaprag/pkg/types"
)

// Stats tallies one Backfill run's outcomes.
type Stats struct {
	Success int
	Skipped int
	Failed  int
}

// Backfill pages through casts lacking an embedding, newest first,
// and embeds each one whose text is non-empty, bounded to
// cfg.ParallelTasks concurrent embedder calls per page via errgroup.
// A per-cast embed or write failure is counted and logged, never
// fails the whole run — one bad cast shouldn't stall the backfill.
func Backfill(ctx context.Context, store storage.Store, emb Embedder, cfg config.EmbeddingsConfig) (Stats, error) {
	pageSize := cfg.BatchSize
	if pageSize <= 0 {
		pageSize = 64
	}
	parallel := cfg.ParallelTasks
	if parallel <= 0 {
		parallel = 4
	}

	backfillLog := log.WithComponent("embedder")
	var stats Stats
	var cursor *int64

	for {
		timer := metrics.NewTimer()
		casts, err := store.CastsMissingEmbeddings(ctx, pageSize, cursor)
		if err != nil {
			return stats, err
		}
		if len(casts) == 0 {
			break
		}

		pageStats, err := embedPage(ctx, store, emb, casts, parallel, backfillLog)
		stats.Success += pageStats.Success
		stats.Skipped += pageStats.Skipped
		stats.Failed += pageStats.Failed
		if err != nil {
			return stats, err
		}

		timer.ObserveDuration(metrics.BackfillPageDuration)
		metrics.BackfillProcessedTotal.WithLabelValues("success").Add(float64(pageStats.Success))
		metrics.BackfillProcessedTotal.WithLabelValues("skipped").Add(float64(pageStats.Skipped))
		metrics.BackfillProcessedTotal.WithLabelValues("failed").Add(float64(pageStats.Failed))

		last := casts[len(casts)-1].Timestamp.Unix()
		cursor = &last

		backfillLog.Debug().
			Int("page_size", len(casts)).
			Int("success", pageStats.Success).
			Int("skipped", pageStats.Skipped).
			Int("failed", pageStats.Failed).
			Msg("backfill page complete")
	}

	return stats, nil
}

func embedPage(ctx context.Context, store storage.Store, emb Embedder, casts []types.Cast, parallel int, backfillLog zerolog.Logger) (Stats, error) {
	var stats Stats
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for _, c := range casts {
		c := c
		group.Go(func() error {
			if strings.TrimSpace(c.Text) == "" {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}

			vectors, err := emb.Embed(gctx, []string{c.Text})
			if err != nil || len(vectors) == 0 {
				backfillLog.Warn().Err(err).Str("message_hash", c.MessageHash).Msg("embed failed")
				mu.Lock()
				stats.Failed++
				mu.Unlock()
				return nil
			}

			err = store.UpsertCastEmbeddings(gctx, []types.CastEmbedding{{
				MessageHash: c.MessageHash,
				FID:         c.FID,
				Text:        c.Text,
				Embedding:   vectors[0],
			}})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				backfillLog.Warn().Err(err).Str("message_hash", c.MessageHash).Msg("persist embedding failed")
				stats.Failed++
				return nil
			}
			stats.Success++
			return nil
		})
	}

	err := group.Wait()
	return stats, err
}
