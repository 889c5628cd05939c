package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration (file values merged over defaults)",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("database:\n  url=%s max_connections=%d min_connections=%d connection_timeout=%s\n",
		cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MinConnections, cfg.Database.ConnectionTimeout)
	fmt.Printf("logging:\n  level=%s backtrace=%t\n", cfg.Logging.Level, cfg.Logging.Backtrace)
	fmt.Printf("embeddings:\n  dimension=%d model=%s batch_size=%d parallel_tasks=%d endpoints=%v\n",
		cfg.Embeddings.Dimension, cfg.Embeddings.Model, cfg.Embeddings.BatchSize, cfg.Embeddings.ParallelTasks, cfg.Embeddings.Endpoints)
	fmt.Printf("performance:\n  enable_vector_indexes=%t vector_index_lists=%d\n",
		cfg.Performance.EnableVectorIndexes, cfg.Performance.VectorIndexLists)
	fmt.Printf("sync:\n  http_endpoint=%s grpc_endpoint=%s enable_realtime=%t enable_historical=%t batch_size=%d sync_interval_ms=%d shard_ids=%v\n",
		cfg.Sync.HTTPEndpoint, cfg.Sync.GRPCEndpoint, cfg.Sync.EnableRealtime, cfg.Sync.EnableHistorical,
		cfg.Sync.BatchSize, cfg.Sync.SyncIntervalMS, cfg.Sync.ShardIDs)
	fmt.Printf("llm:\n  endpoint=%s\n", cfg.LLM.Endpoint)
	return nil
}
