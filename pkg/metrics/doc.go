/*
Package metrics provides Prometheus metrics collection and exposition for snaprag.

Metrics are registered at package init and grouped by pipeline stage:

  - Sync: per-shard high-water mark, sync status, poll iteration counts
    and RPC round-trip duration.
  - Batch: flush duration, rows flushed per entity, flush error counts
    by errtag category.
  - Parser: messages parsed by message type, parse warnings by reason.
  - Backfill: casts still missing an embedding, pages processed,
    per-page duration.
  - Retrieval: query count and latency by search mode.
  - API: request count and duration by route.

Handler exposes the registry over HTTP for Prometheus scraping. Collector
polls storage on a fixed tick for the gauges that aren't updated inline
by the component that owns them (ShardHighWater, CastsWithoutEmbeddings).

Use Timer to measure an operation and record it against a histogram:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.BatchFlushDuration)
	// ... do the flush ...
*/
package metrics
