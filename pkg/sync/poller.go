// Package syncer drives the per-shard ingest loop: read the
// persisted high-water mark, stream chunks from the node, parse and
// accumulate them, then flush and advance in lockstep.
package syncer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/snaprag/snaprag/pkg/batch"
	"github.com/snaprag/snaprag/pkg/config"
	"github.com/snaprag/snaprag/pkg/errtag"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/metrics"
	"github.com/snaprag/snaprag/pkg/parser"
	"github.com/snaprag/snaprag/pkg/shardrpc"
	"github.com/snaprag/snaprag/pkg/storage"
	"github.com/snaprag/snaprag/pkg/types"
)

// defaultFlushRowThreshold bounds how large an in-memory accumulator
// grows before a flush when sync.batch_size is unset; otherwise the
// threshold is 50 × sync.batch_size (see flushThreshold).
const defaultFlushRowThreshold = 5000

// Poller owns one shard's ingest loop. It is not safe to Start twice.
type Poller struct {
	shardID uint32
	client  shardrpc.ShardNodeClient
	store   storage.Store
	cfg     config.SyncConfig
	logger  zerolog.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewPoller builds a Poller for one shard.
func NewPoller(shardID uint32, client shardrpc.ShardNodeClient, store storage.Store, cfg config.SyncConfig) *Poller {
	return &Poller{
		shardID: shardID,
		client:  client,
		store:   store,
		cfg:     cfg,
		logger:  log.WithShard(shardID),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start launches the poll loop in its own goroutine.
func (p *Poller) Start(ctx context.Context) {
	go p.run(ctx)
}

// Stop signals cooperative cancellation and waits for the in-flight
// flush (bounded by its own statement timeout) to finish.
func (p *Poller) Stop() {
	close(p.stopCh)
	<-p.doneCh
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)
	p.logger.Info().Msg("poller started")

	interval := time.Duration(p.cfg.SyncIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}

	for {
		select {
		case <-p.stopCh:
			p.logger.Info().Msg("poller stopped")
			return
		case <-ctx.Done():
			return
		default:
		}

		advanced, err := p.pollOnce(ctx)
		if err != nil {
			p.logger.Error().Err(err).Msg("poll cycle failed")
			errMsg := err.Error()
			if setErr := p.store.SetSyncStatus(ctx, p.shardID, types.SyncStatusError, &errMsg); setErr != nil {
				p.logger.Warn().Err(setErr).Msg("failed to record sync status")
			}
			if !errtag.IsRetryable(err) {
				return
			}
		}

		if !advanced {
			select {
			case <-time.After(interval):
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// pollOnce requests one window of blocks, parses and accumulates each
// returned chunk, and flushes whenever the accumulator crosses the
// row threshold or the window is exhausted. It returns whether any
// chunk was seen, so run() knows whether to sleep before retrying.
func (p *Poller) pollOnce(ctx context.Context) (bool, error) {
	last, err := p.store.GetSyncHighWater(ctx, p.shardID)
	if err != nil {
		return false, fmt.Errorf("get high water: %w", err)
	}

	width := uint64(p.cfg.BatchSize)
	if width == 0 {
		width = 100
	}
	from := last + 1
	to := from + width - 1

	shardLabel := strconv.FormatUint(uint64(p.shardID), 10)
	timer := metrics.NewTimer()
	chunks, errs := p.client.GetBlocks(ctx, p.shardID, from, &to)

	acc := batch.New()
	var lastHeight uint64
	var sawAny bool

	for chunks != nil || errs != nil {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				chunks = nil
				continue
			}
			sawAny = true
			parsed, parseErr := parser.ParseChunk(&chunk, p.shardID)
			if parseErr != nil {
				p.logger.Warn().Err(parseErr).Msg("dropping unparseable chunk")
				continue
			}
			acc.Merge(parsed)
			if chunk.Header.BlockNumber > lastHeight {
				lastHeight = chunk.Header.BlockNumber
			}
			if acc.Len() >= flushThreshold(p.cfg) {
				if err := p.flush(ctx, acc, lastHeight); err != nil {
					timer.ObserveDurationVec(metrics.PollDuration, shardLabel)
					return sawAny, err
				}
				acc = batch.New()
			}
		case streamErr, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if streamErr != nil {
				timer.ObserveDurationVec(metrics.PollDuration, shardLabel)
				return sawAny, errtag.Tagf(errtag.Transient, "stream blocks: %w", streamErr)
			}
		case <-ctx.Done():
			timer.ObserveDurationVec(metrics.PollDuration, shardLabel)
			return sawAny, ctx.Err()
		}
	}

	if !acc.IsEmpty() {
		if err := p.flush(ctx, acc, lastHeight); err != nil {
			timer.ObserveDurationVec(metrics.PollDuration, shardLabel)
			return sawAny, err
		}
	}

	timer.ObserveDurationVec(metrics.PollDuration, shardLabel)
	outcome := "empty"
	if sawAny {
		outcome = "advanced"
	}
	metrics.PollIterationsTotal.WithLabelValues(shardLabel, outcome).Inc()
	return sawAny, nil
}

func (p *Poller) flush(ctx context.Context, acc *batch.Batch, height uint64) error {
	batchLog := log.WithBatch(p.shardID, height)
	timer := metrics.NewTimer()

	if err := p.store.FlushBatch(ctx, acc); err != nil {
		metrics.BatchFlushErrorsTotal.WithLabelValues(string(errtag.CategoryOf(err))).Inc()
		return fmt.Errorf("flush batch: %w", err)
	}
	if err := p.store.AdvanceSyncHighWater(ctx, p.shardID, height); err != nil {
		return fmt.Errorf("advance high water: %w", err)
	}
	if err := p.store.SetSyncStatus(ctx, p.shardID, types.SyncStatusSyncing, nil); err != nil {
		batchLog.Warn().Err(err).Msg("failed to set sync status")
	}

	timer.ObserveDuration(metrics.BatchFlushDuration)
	metrics.BatchRowsFlushed.WithLabelValues("casts").Add(float64(len(acc.Casts)))
	metrics.BatchRowsFlushed.WithLabelValues("links").Add(float64(len(acc.Links) + len(acc.LinkRemoves)))
	metrics.BatchRowsFlushed.WithLabelValues("reactions").Add(float64(len(acc.Reactions) + len(acc.ReactionRemoves)))
	metrics.BatchRowsFlushed.WithLabelValues("verifications").Add(float64(len(acc.Verifications) + len(acc.VerificationRemoves)))
	metrics.ShardHighWater.WithLabelValues(strconv.FormatUint(uint64(p.shardID), 10)).Set(float64(height))

	batchLog.Debug().Int("rows", acc.Len()).Msg("flushed")
	return nil
}

func flushThreshold(cfg config.SyncConfig) int {
	if cfg.BatchSize <= 0 {
		return defaultFlushRowThreshold
	}
	return cfg.BatchSize * 50
}
