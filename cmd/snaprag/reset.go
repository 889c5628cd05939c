package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset every shard's sync high-water mark, so the next sync starts from height 0",
	Long: `reset deletes the SyncProgress bookkeeping only; it never touches
ingested data. The next sync run re-polls from each shard's genesis
height and relies on ON CONFLICT DO NOTHING idempotency to skip
rows it already has.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "skip the confirmation prompt")
}

func runReset(cmd *cobra.Command, args []string) error {
	if !resetForce {
		fmt.Print("This resets sync progress for every shard. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

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

	if err := store.ResetSyncProgress(ctx, nil); err != nil {
		return fmt.Errorf("reset sync progress: %w", err)
	}

	fmt.Println("Sync progress reset for all shards.")
	return nil
}
