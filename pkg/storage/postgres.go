package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/types"
)

// PostgresStore is the pgx/v5-backed Store implementation. A single
// pool is shared by every caller; pgxpool handles connection lifetime
// and serializes acquisition under load.
type PostgresStore struct {
	pool *pgxpool.Pool

	embeddingDim        int
	enableVectorIndexes bool
	vectorIndexLists    int
}

// NewPostgresStore opens a pool against cfg.Database and verifies
// connectivity with a ping. cfg.Embeddings/cfg.Performance are kept so
// Migrate can create the dimensioned vector column and its index.
func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if cfg.Database.MaxConnections > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConnections
	}
	if cfg.Database.MinConnections > 0 {
		poolCfg.MinConns = cfg.Database.MinConnections
	}
	if cfg.Database.ConnectionTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.Database.ConnectionTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	dim := cfg.Embeddings.Dimension
	if dim <= 0 {
		dim = 384
	}

	return &PostgresStore{
		pool:                pool,
		embeddingDim:        dim,
		enableVectorIndexes: cfg.Performance.EnableVectorIndexes,
		vectorIndexLists:    cfg.Performance.VectorIndexLists,
	}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) GetSyncHighWater(ctx context.Context, shardID uint32) (uint64, error) {
	var height uint64
	err := s.pool.QueryRow(ctx,
		`SELECT last_processed_height FROM sync_progress WHERE shard_id = $1`,
		shardID,
	).Scan(&height)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, wrapPGError("get_sync_high_water", err)
	}
	return height, nil
}

func (s *PostgresStore) AdvanceSyncHighWater(ctx context.Context, shardID uint32, height uint64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sync_progress (shard_id, last_processed_height, status, updated_at)
		VALUES ($1, $2, 'syncing', now())
		ON CONFLICT (shard_id) DO UPDATE SET
			last_processed_height = EXCLUDED.last_processed_height,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, shardID, height)
	return wrapPGError("advance_sync_high_water", err)
}

func (s *PostgresStore) SetSyncStatus(ctx context.Context, shardID uint32, status types.SyncStatus, errMsg *string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sync_progress (shard_id, last_processed_height, status, error_message, updated_at)
		VALUES ($1, 0, $2, $3, now())
		ON CONFLICT (shard_id) DO UPDATE SET
			status = EXCLUDED.status,
			error_message = EXCLUDED.error_message,
			updated_at = EXCLUDED.updated_at
	`, shardID, status, errMsg)
	return wrapPGError("set_sync_status", err)
}

func (s *PostgresStore) ResetSyncProgress(ctx context.Context, shardIDs []uint32) error {
	if len(shardIDs) == 0 {
		_, err := s.pool.Exec(ctx, `DELETE FROM sync_progress`)
		return wrapPGError("reset_sync_progress", err)
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM sync_progress WHERE shard_id = ANY($1)`, shardIDs)
	return wrapPGError("reset_sync_progress", err)
}

func (s *PostgresStore) AllSyncProgress(ctx context.Context) ([]types.SyncProgress, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT shard_id, last_processed_height, status, error_message, updated_at
		FROM sync_progress
		ORDER BY shard_id
	`)
	if err != nil {
		return nil, wrapPGError("all_sync_progress", err)
	}
	defer rows.Close()

	var out []types.SyncProgress
	for rows.Next() {
		var p types.SyncProgress
		if err := rows.Scan(&p.ShardID, &p.LastProcessedHeight, &p.Status, &p.ErrorMessage, &p.UpdatedAt); err != nil {
			return nil, wrapPGError("all_sync_progress scan", err)
		}
		out = append(out, p)
	}
	return out, wrapPGError("all_sync_progress rows", rows.Err())
}

func (s *PostgresStore) SemanticSearchCasts(ctx context.Context, queryEmbedding []float32, k int, minSimilarity *float64) ([]CastHit, error) {
	threshold := 0.0
	if minSimilarity != nil {
		threshold = *minSimilarity
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.message_hash, c.fid, c.text, c.timestamp, c.parent_hash, c.root_hash,
		       1 - (e.embedding <=> $1) AS similarity
		FROM cast_embeddings e
		JOIN casts c ON c.message_hash = e.message_hash
		WHERE 1 - (e.embedding <=> $1) >= $2
		ORDER BY e.embedding <=> $1
		LIMIT $3
	`, pgvector.NewVector(queryEmbedding), threshold, k)
	if err != nil {
		return nil, wrapPGError("semantic_search_casts", err)
	}
	defer rows.Close()

	var hits []CastHit
	for rows.Next() {
		var h CastHit
		if err := rows.Scan(&h.Cast.MessageHash, &h.Cast.FID, &h.Cast.Text, &h.Cast.Timestamp,
			&h.Cast.ParentHash, &h.Cast.RootHash, &h.Similarity); err != nil {
			return nil, wrapPGError("semantic_search_casts scan", err)
		}
		hits = append(hits, h)
	}
	return hits, wrapPGError("semantic_search_casts rows", rows.Err())
}

// SemanticSearchCastsForUser is SemanticSearchCasts with an added fid
// filter, for the "ask as this user" per-user ranking composite.
func (s *PostgresStore) SemanticSearchCastsForUser(ctx context.Context, fid uint64, queryEmbedding []float32, k int) ([]CastHit, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT c.message_hash, c.fid, c.text, c.timestamp, c.parent_hash, c.root_hash,
		       1 - (e.embedding <=> $1) AS similarity
		FROM cast_embeddings e
		JOIN casts c ON c.message_hash = e.message_hash
		WHERE c.fid = $2
		ORDER BY e.embedding <=> $1
		LIMIT $3
	`, pgvector.NewVector(queryEmbedding), fid, k)
	if err != nil {
		return nil, wrapPGError("semantic_search_casts_for_user", err)
	}
	defer rows.Close()

	var hits []CastHit
	for rows.Next() {
		var h CastHit
		if err := rows.Scan(&h.Cast.MessageHash, &h.Cast.FID, &h.Cast.Text, &h.Cast.Timestamp,
			&h.Cast.ParentHash, &h.Cast.RootHash, &h.Similarity); err != nil {
			return nil, wrapPGError("semantic_search_casts_for_user scan", err)
		}
		hits = append(hits, h)
	}
	return hits, wrapPGError("semantic_search_casts_for_user rows", rows.Err())
}

// KeywordSearchCasts ranks by pg_trgm similarity() so near-matches
// still surface, not just exact substrings.
func (s *PostgresStore) KeywordSearchCasts(ctx context.Context, text string, k int) ([]CastHit, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT message_hash, fid, text, timestamp, parent_hash, root_hash, similarity(text, $1) AS rank
		FROM casts
		WHERE text % $1
		ORDER BY rank DESC
		LIMIT $2
	`, text, k)
	if err != nil {
		return nil, wrapPGError("keyword_search_casts", err)
	}
	defer rows.Close()

	var hits []CastHit
	for rows.Next() {
		var h CastHit
		if err := rows.Scan(&h.Cast.MessageHash, &h.Cast.FID, &h.Cast.Text, &h.Cast.Timestamp,
			&h.Cast.ParentHash, &h.Cast.RootHash, &h.Similarity); err != nil {
			return nil, wrapPGError("keyword_search_casts scan", err)
		}
		hits = append(hits, h)
	}
	return hits, wrapPGError("keyword_search_casts rows", rows.Err())
}

// HybridSearchProfiles is keyword-only today: unlike casts, profiles
// have no persisted embedding (the embedding backfill is scoped to
// Cast text only), so queryEmbedding is accepted for call-site
// symmetry with SemanticSearchCasts/the RRF fusion path in
// pkg/retrieval but does not yet affect ranking. Keyword matching
// uses pg_trgm similarity over bio/display_name so near-matches still
// rank, not plain ILIKE substring order.
func (s *PostgresStore) HybridSearchProfiles(ctx context.Context, queryEmbedding []float32, text string, k int) ([]ProfileHit, error) {
	_ = queryEmbedding

	rows, err := s.pool.Query(ctx, `
		SELECT fid, pfp_url, display_name, bio, website_url, username, location,
		       twitter_username, github_username, banner_url,
		       GREATEST(similarity(bio, $1), similarity(display_name, $1)) AS rank
		FROM profiles
		WHERE bio % $1 OR display_name % $1 OR bio ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%'
		ORDER BY rank DESC
		LIMIT $2
	`, text, k)
	if err != nil {
		return nil, wrapPGError("hybrid_search_profiles", err)
	}
	defer rows.Close()

	var hits []ProfileHit
	for rows.Next() {
		var h ProfileHit
		if err := rows.Scan(&h.Profile.FID, &h.Profile.PfpURL, &h.Profile.DisplayName, &h.Profile.Bio,
			&h.Profile.WebsiteURL, &h.Profile.Username, &h.Profile.Location,
			&h.Profile.TwitterUsername, &h.Profile.GithubUsername, &h.Profile.BannerURL,
			&h.Similarity); err != nil {
			return nil, wrapPGError("hybrid_search_profiles scan", err)
		}
		hits = append(hits, h)
	}
	return hits, wrapPGError("hybrid_search_profiles rows", rows.Err())
}

func (s *PostgresStore) GetProfile(ctx context.Context, fid uint64) (*types.Profile, error) {
	var p types.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT fid, pfp_url, display_name, bio, website_url, username, location,
		       twitter_username, github_username, banner_url
		FROM profiles
		WHERE fid = $1
	`, fid).Scan(&p.FID, &p.PfpURL, &p.DisplayName, &p.Bio, &p.WebsiteURL, &p.Username,
		&p.Location, &p.TwitterUsername, &p.GithubUsername, &p.BannerURL)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, wrapPGError("get_profile", err)
	}
	return &p, nil
}

func (s *PostgresStore) CastsForUser(ctx context.Context, fid uint64, limit int) ([]types.Cast, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT message_hash, fid, text, timestamp, parent_hash, root_hash
		FROM casts
		WHERE fid = $1 AND text <> ''
		ORDER BY timestamp DESC
		LIMIT $2
	`, fid, limit)
	if err != nil {
		return nil, wrapPGError("casts_for_user", err)
	}
	defer rows.Close()

	var out []types.Cast
	for rows.Next() {
		var c types.Cast
		if err := rows.Scan(&c.MessageHash, &c.FID, &c.Text, &c.Timestamp, &c.ParentHash, &c.RootHash); err != nil {
			return nil, wrapPGError("casts_for_user scan", err)
		}
		out = append(out, c)
	}
	return out, wrapPGError("casts_for_user rows", rows.Err())
}

func (s *PostgresStore) GetMissingCastEmbeddings(ctx context.Context, messageHashes []string) (map[string]struct{}, error) {
	if len(messageHashes) == 0 {
		return map[string]struct{}{}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT u.message_hash
		FROM UNNEST($1::text[]) AS u(message_hash)
		LEFT JOIN cast_embeddings e ON e.message_hash = u.message_hash
		WHERE e.message_hash IS NULL
	`, messageHashes)
	if err != nil {
		return nil, wrapPGError("get_missing_cast_embeddings", err)
	}
	defer rows.Close()

	missing := make(map[string]struct{})
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, wrapPGError("get_missing_cast_embeddings scan", err)
		}
		missing[hash] = struct{}{}
	}
	return missing, wrapPGError("get_missing_cast_embeddings rows", rows.Err())
}

// CountCastsWithoutEmbeddings is computed as count(casts with non-empty
// text) - count(cast_embeddings), not an anti-join, so it stays cheap on a
// 10^8-row table (spec.md §4.5's counting optimization).
func (s *PostgresStore) CountCastsWithoutEmbeddings(ctx context.Context) (int64, error) {
	var totalCasts, totalEmbedded int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM casts WHERE text <> ''`).Scan(&totalCasts); err != nil {
		return 0, wrapPGError("count_casts_without_embeddings casts", err)
	}
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM cast_embeddings`).Scan(&totalEmbedded); err != nil {
		return 0, wrapPGError("count_casts_without_embeddings embeddings", err)
	}
	remaining := totalCasts - totalEmbedded
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (s *PostgresStore) CastsMissingEmbeddings(ctx context.Context, pageSize int, afterTimestamp *int64) ([]types.Cast, error) {
	var cursor time.Time
	if afterTimestamp != nil {
		cursor = time.Unix(*afterTimestamp, 0).UTC()
	} else {
		cursor = time.Now().UTC().Add(24 * time.Hour)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT c.message_hash, c.fid, c.text, c.timestamp, c.parent_hash, c.root_hash
		FROM casts c
		LEFT JOIN cast_embeddings e ON e.message_hash = c.message_hash
		WHERE e.message_hash IS NULL AND c.text <> '' AND c.timestamp < $1
		ORDER BY c.timestamp DESC
		LIMIT $2
	`, cursor, pageSize)
	if err != nil {
		return nil, wrapPGError("casts_missing_embeddings", err)
	}
	defer rows.Close()

	var out []types.Cast
	for rows.Next() {
		var c types.Cast
		if err := rows.Scan(&c.MessageHash, &c.FID, &c.Text, &c.Timestamp, &c.ParentHash, &c.RootHash); err != nil {
			return nil, wrapPGError("casts_missing_embeddings scan", err)
		}
		out = append(out, c)
	}
	return out, wrapPGError("casts_missing_embeddings rows", rows.Err())
}

func (s *PostgresStore) UpsertCastEmbeddings(ctx context.Context, embeddings []types.CastEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	sort.Slice(embeddings, func(i, j int) bool { return embeddings[i].MessageHash < embeddings[j].MessageHash })

	hashes := make([]string, len(embeddings))
	fids := make([]uint64, len(embeddings))
	vectors := make([]pgvector.Vector, len(embeddings))

	for i, e := range embeddings {
		hashes[i] = e.MessageHash
		fids[i] = e.FID
		vectors[i] = pgvector.NewVector(e.Embedding)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO cast_embeddings (message_hash, fid, embedding, updated_at)
		SELECT u.message_hash, u.fid, u.embedding, now()
		FROM UNNEST($1::text[], $2::bigint[], $3::vector[]) AS u(message_hash, fid, embedding)
		ON CONFLICT (message_hash) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`, hashes, fids, vectors)

	return wrapPGError("upsert_cast_embeddings", err)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
