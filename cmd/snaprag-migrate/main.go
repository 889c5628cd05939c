// Command snaprag-migrate applies every pending migration under
// pkg/storage/migrations/ against the configured Postgres database and
// exits. `snaprag sync` does not apply migrations at startup, so this
// standalone binary is how the schema is brought up to date — useful
// ahead of a rollout, or in a CI step, without starting the pipeline.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (default: $SNAPRAG_CONFIG or ./config.toml)")
	timeout := flag.Duration("timeout", 60*time.Second, "overall timeout for the migration run")
	flag.Parse()

	log.Init(log.Config{Level: log.InfoLevel})
	migrateLog := log.WithComponent("snaprag-migrate")

	path := *configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		migrateLog.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store, err := storage.NewPostgresStore(ctx, cfg)
	if err != nil {
		migrateLog.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	migrateLog.Info().Str("database", cfg.Database.URL).Msg("applying migrations")
	if err := store.Migrate(ctx); err != nil {
		migrateLog.Fatal().Err(err).Msg("migration failed")
	}

	migrateLog.Info().Msg("migrations applied successfully")
}
