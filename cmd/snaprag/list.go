package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "List rows of an entity (shards)",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "maximum rows to print")
}

func runList(cmd *cobra.Command, args []string) error {
	entity := args[0]

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

	switch entity {
	case "shards":
		progress, err := store.AllSyncProgress(ctx)
		if err != nil {
			return fmt.Errorf("list shards: %w", err)
		}
		fmt.Printf("%-8s %-20s %-10s %s\n", "SHARD", "LAST_HEIGHT", "STATUS", "ERROR")
		for i, p := range progress {
			if i >= listLimit {
				break
			}
			errMsg := ""
			if p.ErrorMessage != nil {
				errMsg = *p.ErrorMessage
			}
			fmt.Printf("%-8d %-20d %-10s %s\n", p.ShardID, p.LastProcessedHeight, p.Status, errMsg)
		}
	default:
		return fmt.Errorf("unknown entity %q: supported entities are: shards", entity)
	}
	return nil
}
