// Package storage defines and implements the one component that owns
// all persistent state: bulk batch flushes for ingest, sync
// high-water tracking, and the read paths pkg/retrieval depends on.
package storage

import (
	"context"

	"github.com/snaprag/snaprag/pkg/batch"
	"github.com/snaprag/snaprag/pkg/types"
)

// CastHit is one semantic-search result: a Cast plus its similarity
// to the query embedding.
type CastHit struct {
	Cast       types.Cast
	Similarity float64
}

// ProfileHit is one profile search result.
type ProfileHit struct {
	Profile    types.Profile
	Similarity float64
}

// Store is the storage layer's public contract. A Postgres/pgx
// implementation is provided by postgres.go; every method here is
// safe for concurrent use by multiple callers (the connection pool
// serializes access at the pgxpool level).
type Store interface {
	// FlushBatch atomically persists one batch.Batch. On return every
	// row is durable and visible to readers.
	FlushBatch(ctx context.Context, b *batch.Batch) error

	// GetSyncHighWater returns the last processed block height for shardID.
	GetSyncHighWater(ctx context.Context, shardID uint32) (uint64, error)

	// AdvanceSyncHighWater sets shardID's high-water mark to height.
	// Called only after the flush that covers height has committed.
	AdvanceSyncHighWater(ctx context.Context, shardID uint32, height uint64) error

	// SetSyncStatus records shardID's current status, with an optional
	// error message when status is SyncStatusError.
	SetSyncStatus(ctx context.Context, shardID uint32, status types.SyncStatus, errMsg *string) error

	// ResetSyncProgress deletes the SyncProgress row for each of
	// shardIDs (or every shard if shardIDs is empty), for the `reset`
	// CLI command. It does not touch any ingested data — only the
	// high-water bookkeeping, so the next poll starts from height 0.
	ResetSyncProgress(ctx context.Context, shardIDs []uint32) error

	// AllSyncProgress returns the current SyncProgress row for every
	// shard the store has seen, for the metrics collector and the
	// `stats`/`status` CLI commands.
	AllSyncProgress(ctx context.Context) ([]types.SyncProgress, error)

	// SemanticSearchCasts returns the top-k casts by cosine similarity
	// to queryEmbedding, optionally filtered by minSimilarity.
	SemanticSearchCasts(ctx context.Context, queryEmbedding []float32, k int, minSimilarity *float64) ([]CastHit, error)

	// KeywordSearchCasts returns the top-k casts by trigram similarity
	// to text, for the keyword and hybrid search modes.
	KeywordSearchCasts(ctx context.Context, text string, k int) ([]CastHit, error)

	// SemanticSearchCastsForUser is SemanticSearchCasts scoped to one
	// fid's own casts, for the per-user ranking composite in
	// pkg/retrieval. It returns raw (similarity, text, timestamp)
	// tuples; the composite score itself is a retrieval-layer concern.
	SemanticSearchCastsForUser(ctx context.Context, fid uint64, queryEmbedding []float32, k int) ([]CastHit, error)

	// HybridSearchProfiles ranks profiles by trigram similarity of text
	// to bio/display_name. queryEmbedding is accepted but not used:
	// profiles have no stored embedding, so there is no semantic leg.
	HybridSearchProfiles(ctx context.Context, queryEmbedding []float32, text string, k int) ([]ProfileHit, error)

	// GetProfile returns the projected profile for fid.
	GetProfile(ctx context.Context, fid uint64) (*types.Profile, error)

	// CastsForUser returns a user's casts with non-empty text, newest
	// first, for the per-user retrieval ranking composite.
	CastsForUser(ctx context.Context, fid uint64, limit int) ([]types.Cast, error)

	// GetMissingCastEmbeddings returns the subset of messageHashes that
	// have no corresponding CastEmbedding row.
	GetMissingCastEmbeddings(ctx context.Context, messageHashes []string) (map[string]struct{}, error)

	// CountCastsWithoutEmbeddings returns the count of casts with
	// non-empty text minus count(CastEmbedding), floored at zero.
	CountCastsWithoutEmbeddings(ctx context.Context) (int64, error)

	// CastsMissingEmbeddings pages through Cast rows that have no
	// CastEmbedding, newest first, for the backfill engine.
	CastsMissingEmbeddings(ctx context.Context, pageSize int, afterTimestamp *int64) ([]types.Cast, error)

	// UpsertCastEmbeddings bulk-writes embeddings, updating on conflict.
	UpsertCastEmbeddings(ctx context.Context, embeddings []types.CastEmbedding) error

	// Migrate applies every migration in migrations/ that hasn't run yet.
	Migrate(ctx context.Context) error

	// Close releases the underlying connection pool.
	Close()
}
