package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/embedder"
	"github.com/snaprag/snaprag/pkg/shardrpc"
	"github.com/snaprag/snaprag/pkg/storage"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func lockPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("lock")
	return path
}

func openStore(ctx context.Context, cfg *config.Config) (*storage.PostgresStore, error) {
	store, err := storage.NewPostgresStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return store, nil
}

// newShardClient picks gRPC if configured, else HTTP — mirroring
// sync.GRPCEndpoint/HTTPEndpoint being mutually-optional per spec.md §6.
func newShardClient(cfg *config.Config) (shardrpc.ShardNodeClient, error) {
	if cfg.Sync.GRPCEndpoint != "" {
		return shardrpc.NewGRPCClient(cfg.Sync.GRPCEndpoint)
	}
	if cfg.Sync.HTTPEndpoint != "" {
		return shardrpc.NewHTTPClient(cfg.Sync.HTTPEndpoint), nil
	}
	return nil, fmt.Errorf("sync.http_endpoint or sync.grpc_endpoint must be set")
}

func newEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	if len(cfg.Embeddings.Endpoints) == 0 {
		return nil, fmt.Errorf("embeddings.endpoints must have at least one entry")
	}
	maxBatch := cfg.Embeddings.BatchSize
	if maxBatch <= 0 {
		maxBatch = 64
	}
	return embedder.NewHTTPEmbedder(cfg.Embeddings.Endpoints[0], cfg.Embeddings.Model, maxBatch), nil
}
