package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snaprag/snaprag/pkg/batch"
	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/embedder"
	"github.com/snaprag/snaprag/pkg/lifecycle"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/parser"
	"github.com/snaprag/snaprag/pkg/storage"
	syncer "github.com/snaprag/snaprag/pkg/sync"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run or inspect the shard ingest pipeline",
}

var syncAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Run continuous sync across every configured shard",
	RunE:  runSyncSupervisor,
}

var syncRealtimeCmd = &cobra.Command{
	Use:   "realtime",
	Short: "Run continuous sync across every configured shard (alias of 'all')",
	RunE:  runSyncSupervisor,
}

var syncStartFrom uint64
var syncStartTo uint64
var syncStartShard uint32

var syncStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Seed one shard's high-water mark and start syncing it",
	Long: `start sets shard's sync high-water mark to --from - 1, so the next
poll begins at --from, then runs the continuous poller for that shard
alone. --to is accepted for forward compatibility but the current
poller has no upper bound once started; combine with 'sync test' for a
single bounded block range instead.`,
	RunE: runSyncStart,
}

var syncTestShard uint32
var syncTestBlock uint64

var syncTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Fetch, parse, and flush a single block for one shard, without advancing high-water",
	RunE:  runSyncTest,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the lifecycle lock and per-shard sync progress",
	RunE:  runSyncStatus,
}

var syncStopForce bool

var syncStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running 'sync all'/'sync realtime' process",
	RunE:  runSyncStop,
}

func init() {
	syncStartCmd.Flags().Uint64Var(&syncStartFrom, "from", 0, "height to resume from (required)")
	syncStartCmd.Flags().Uint64Var(&syncStartTo, "to", 0, "optional upper bound (accepted, not yet enforced)")
	syncStartCmd.Flags().Uint32Var(&syncStartShard, "shard", 0, "shard id to sync")
	_ = syncStartCmd.MarkFlagRequired("from")
	_ = syncStartCmd.MarkFlagRequired("shard")

	syncTestCmd.Flags().Uint32Var(&syncTestShard, "shard", 0, "shard id")
	syncTestCmd.Flags().Uint64Var(&syncTestBlock, "block", 0, "block height to fetch")
	_ = syncTestCmd.MarkFlagRequired("shard")
	_ = syncTestCmd.MarkFlagRequired("block")

	syncStopCmd.Flags().BoolVar(&syncStopForce, "force", false, "SIGKILL instead of a cooperative SIGTERM")

	syncCmd.AddCommand(syncAllCmd, syncRealtimeCmd, syncStartCmd, syncTestCmd, syncStatusCmd, syncStopCmd)
}

func runSyncSupervisor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runSupervisorForShards(cmd, cfg, cfg.Sync.ShardIDs)
}

func runSyncStart(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if syncStartFrom > 0 {
		if err := store.AdvanceSyncHighWater(ctx, syncStartShard, syncStartFrom-1); err != nil {
			store.Close()
			return fmt.Errorf("seed high-water: %w", err)
		}
	}
	store.Close()

	return runSupervisorForShards(cmd, cfg, []uint32{syncStartShard})
}

// runSupervisorForShards acquires the lifecycle lock, starts a
// syncer.Supervisor scoped to shardIDs, and blocks until SIGINT/SIGTERM.
func runSupervisorForShards(cmd *cobra.Command, cfg *config.Config, shardIDs []uint32) error {
	lock, err := lifecycle.Acquire(lockPath(cmd))
	if err != nil {
		return err
	}
	defer lock.Release()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		_ = lock.Update(lifecycle.StatusError, nil, err.Error())
		return err
	}
	defer store.Close()

	client, err := newShardClient(cfg)
	if err != nil {
		_ = lock.Update(lifecycle.StatusError, nil, err.Error())
		return err
	}
	defer client.Close()

	scopedCfg := cfg.Sync
	scopedCfg.ShardIDs = shardIDs
	supervisor := syncer.NewSupervisor(client, store, scopedCfg)

	_ = lock.Update(lifecycle.StatusRunning, nil, "")
	go heartbeatLock(ctx, lock, store)
	go runBackfillLoop(ctx, store, cfg)

	runLog := log.WithComponent("cli")
	runLog.Info().Interface("shards", shardIDs).Msg("starting sync supervisor")

	if err := supervisor.Run(ctx); err != nil {
		_ = lock.Update(lifecycle.StatusError, nil, err.Error())
		return err
	}
	_ = lock.Update(lifecycle.StatusStopping, nil, "")
	return nil
}

// runBackfillLoop runs the embedding backfill as its own long-lived
// task alongside the shard pollers, per the cooperative multi-task
// scheduling model: it repeats Backfill on a fixed interval rather
// than running once, since new casts keep arriving from the pollers.
func runBackfillLoop(ctx context.Context, store storage.Store, cfg *config.Config) {
	backfillLog := log.WithComponent("cli")

	emb, err := newEmbedder(cfg)
	if err != nil {
		backfillLog.Warn().Err(err).Msg("embedding backfill disabled: no embedder configured")
		return
	}

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := embedder.Backfill(ctx, store, emb, cfg.Embeddings)
			if err != nil {
				backfillLog.Warn().Err(err).Msg("backfill pass failed")
				continue
			}
			if stats.Success > 0 || stats.Failed > 0 {
				backfillLog.Info().Int("success", stats.Success).Int("skipped", stats.Skipped).
					Int("failed", stats.Failed).Msg("backfill pass complete")
			}
		}
	}
}

func heartbeatLock(ctx context.Context, lock *lifecycle.Lock, store storage.Store) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			progress, err := store.AllSyncProgress(ctx)
			if err != nil {
				continue
			}
			entries := make([]lifecycle.Progress, 0, len(progress))
			for _, p := range progress {
				entries = append(entries, lifecycle.Progress{Shard: p.ShardID, Block: p.LastProcessedHeight})
			}
			_ = lock.Update(lifecycle.StatusRunning, entries, "")
		}
	}
}

func runSyncTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := newShardClient(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	toHeight := syncTestBlock
	chunks, errs := client.GetBlocks(ctx, syncTestShard, syncTestBlock, &toHeight)

	acc := batch.New()
	for chunks != nil || errs != nil {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			parsed, err := parser.ParseChunk(&chunk, syncTestShard)
			if err != nil {
				return fmt.Errorf("parse block %d: %w", chunk.Header.BlockNumber, err)
			}
			acc.Merge(parsed)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return fmt.Errorf("fetch block %d: %w", syncTestBlock, err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if acc.IsEmpty() {
		fmt.Printf("shard %d block %d: no user messages\n", syncTestShard, syncTestBlock)
		return nil
	}

	if err := store.FlushBatch(ctx, acc); err != nil {
		return fmt.Errorf("flush block %d: %w", syncTestBlock, err)
	}
	fmt.Printf("shard %d block %d: flushed %d rows\n", syncTestShard, syncTestBlock, acc.Len())
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	state, err := lifecycle.Read(lockPath(cmd))
	if err != nil {
		fmt.Println("No running pipeline (no lockfile found).")
	} else {
		fmt.Printf("pid=%d status=%s started=%s last_update=%s\n",
			state.PID, state.Status, state.StartTime.Format(time.RFC3339), state.LastUpdate.Format(time.RFC3339))
		for _, p := range state.Progress {
			fmt.Printf("  shard=%d block=%d\n", p.Shard, p.Block)
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

	progress, err := store.AllSyncProgress(ctx)
	if err != nil {
		return fmt.Errorf("read sync progress: %w", err)
	}
	fmt.Println("\nPersisted sync progress:")
	for _, p := range progress {
		fmt.Printf("  shard=%d height=%d status=%s\n", p.ShardID, p.LastProcessedHeight, p.Status)
	}
	return nil
}

func runSyncStop(cmd *cobra.Command, args []string) error {
	if err := lifecycle.Stop(lockPath(cmd), syncStopForce, 30*time.Second); err != nil {
		return err
	}
	fmt.Println("stop signal sent.")
	return nil
}
