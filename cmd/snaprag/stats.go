package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsDetailed bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-shard sync progress and embedding backfill status",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsDetailed, "detailed", false, "include error messages per shard")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	progress, err := store.AllSyncProgress(ctx)
	if err != nil {
		return fmt.Errorf("read sync progress: %w", err)
	}

	fmt.Println("Shards:")
	for _, p := range progress {
		fmt.Printf("  shard=%d height=%d status=%s", p.ShardID, p.LastProcessedHeight, p.Status)
		if statsDetailed && p.ErrorMessage != nil {
			fmt.Printf(" error=%q", *p.ErrorMessage)
		}
		fmt.Println()
	}

	missing, err := store.CountCastsWithoutEmbeddings(ctx)
	if err != nil {
		return fmt.Errorf("count casts without embeddings: %w", err)
	}
	fmt.Printf("\nCasts awaiting embedding: %d\n", missing)
	return nil
}
