// Package shardrpc implements the Node RPC client the shard poller
// depends on: a bidirectional-streaming-shaped GetBlocks call and a
// GetBlockRange call, over either a gRPC or an HTTP/NDJSON transport.
package shardrpc

import "context"

// ShardNodeClient is the transport-agnostic interface pkg/sync depends
// on. Both the gRPC and the HTTP/NDJSON implementations satisfy it.
type ShardNodeClient interface {
	// GetBlocks streams chunks for shardID starting at fromHeight. When
	// toHeight is nil the stream runs to the node's current tip; when
	// non-nil it stops after the chunk covering toHeight. The returned
	// channel is closed when the stream ends or ctx is canceled; a
	// send on errc (buffered, size 1) precedes the channel close on
	// failure.
	GetBlocks(ctx context.Context, shardID uint32, fromHeight uint64, toHeight *uint64) (<-chan ShardChunk, <-chan error)

	// GetBlockRange returns the node's known [min, max] block numbers
	// for shardID.
	GetBlockRange(ctx context.Context, shardID uint32) (min, max uint64, err error)

	// Close releases the underlying transport connection.
	Close() error
}
