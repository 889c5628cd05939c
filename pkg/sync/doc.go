// Package syncer drives shard ingestion. Each Poller owns one shard:
// read the durable high-water mark, stream a window of blocks from
// the node, parse and accumulate, then flush and, once the flush has
// committed, advance the high-water mark in a separate statement (not
// inside the flush's transaction), so high-water only moves past data
// that is already durable. Supervisor starts one Poller per configured shard and
// tears them all down together on cancellation; shards make no
// ordering promises relative to each other, only within themselves.
package syncer
