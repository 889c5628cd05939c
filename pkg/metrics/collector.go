package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/snaprag/snaprag/pkg/types"
)

// StatsSource is the narrow slice of pkg/storage.Store the collector
// polls. Defined here rather than imported to keep pkg/metrics free of
// a dependency on pkg/storage.
type StatsSource interface {
	AllSyncProgress(ctx context.Context) ([]types.SyncProgress, error)
	CountCastsWithoutEmbeddings(ctx context.Context) (int64, error)
}

// Collector periodically polls storage for gauge-style metrics that
// aren't naturally updated inline by the component producing them
// (sync high-water, backfill backlog size).
type Collector struct {
	source StatsSource
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector over source.
func NewCollector(source StatsSource) *Collector {
	return &Collector{
		source: source,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics on a 15-second tick.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c.collectSyncMetrics(ctx)
	c.collectBackfillMetrics(ctx)
}

func (c *Collector) collectSyncMetrics(ctx context.Context) {
	progress, err := c.source.AllSyncProgress(ctx)
	if err != nil {
		return
	}

	for _, p := range progress {
		shardID := strconv.FormatUint(uint64(p.ShardID), 10)
		ShardHighWater.WithLabelValues(shardID).Set(float64(p.LastProcessedHeight))

		for _, status := range []types.SyncStatus{
			types.SyncStatusIdle, types.SyncStatusSyncing, types.SyncStatusError, types.SyncStatusDone,
		} {
			value := 0.0
			if p.Status == status {
				value = 1.0
			}
			ShardSyncStatus.WithLabelValues(shardID, string(status)).Set(value)
		}
	}
}

func (c *Collector) collectBackfillMetrics(ctx context.Context) {
	count, err := c.source.CountCastsWithoutEmbeddings(ctx)
	if err != nil {
		return
	}
	CastsWithoutEmbeddings.Set(float64(count))
}
