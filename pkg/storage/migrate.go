package storage

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/snaprag/snaprag/pkg/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every migration under migrations/ that hasn't run
// yet, tracked in schema_migrations, then ensures cast_embeddings
// exists with the configured vector dimension and its ANN index.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	migrateLog := log.WithComponent("storage")

	for _, name := range names {
		version := strings.TrimSuffix(name, ".sql")

		var applied bool
		err := s.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version,
		).Scan(&applied)
		// schema_migrations itself may not exist yet on a bare database;
		// the first migration file creates it, so a lookup error here
		// just means "not applied".
		if err == nil && applied {
			continue
		}

		sqlBytes, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.pool.Exec(ctx, string(sqlBytes)); err != nil {
			return wrapPGError("migrate:"+version, err)
		}
		if _, err := s.pool.Exec(ctx,
			`INSERT INTO schema_migrations (version) VALUES ($1) ON CONFLICT (version) DO NOTHING`, version,
		); err != nil {
			return wrapPGError("migrate record:"+version, err)
		}

		migrateLog.Info().Str("version", version).Msg("applied migration")
	}

	return s.migrateEmbeddingsSchema(ctx)
}

// migrateEmbeddingsSchema creates cast_embeddings with the
// configured vector width, since pgvector requires a fixed dimension
// on the column to build an ANN index against it.
func (s *PostgresStore) migrateEmbeddingsSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return wrapPGError("migrate:vector_extension", err)
	}
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS pg_trgm`); err != nil {
		return wrapPGError("migrate:pg_trgm_extension", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS cast_embeddings (
			message_hash  text PRIMARY KEY REFERENCES casts(message_hash) ON DELETE CASCADE,
			fid           bigint NOT NULL,
			text          text NOT NULL DEFAULT '',
			embedding     vector(%d) NOT NULL,
			updated_at    timestamptz NOT NULL DEFAULT now()
		)
	`, s.embeddingDim)
	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return wrapPGError("migrate:cast_embeddings_table", err)
	}

	if !s.enableVectorIndexes {
		return nil
	}

	lists := s.vectorIndexLists
	if lists <= 0 {
		lists = 100
	}
	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_cast_embeddings_ivfflat
		ON cast_embeddings USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d)
	`, lists)
	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return wrapPGError("migrate:cast_embeddings_index", err)
	}

	trgmIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_profiles_bio_trgm ON profiles USING gin (bio gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_profiles_display_name_trgm ON profiles USING gin (display_name gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_casts_text_trgm ON casts USING gin (text gin_trgm_ops)`,
	}
	for _, stmt := range trgmIndexes {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return wrapPGError("migrate:trgm_index", err)
		}
	}

	return nil
}
