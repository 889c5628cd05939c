/*
Package shardrpc is the Node RPC client the shard poller depends on.

Two transports implement the same ShardNodeClient interface:

  - GRPCClient, dialed against sync.grpc_endpoint, carrying the wire
    types in types.go as JSON over gRPC's framing via the codec in
    codec.go (no protobuf compiler runs in this workspace).
  - HTTPClient, dialed against sync.http_endpoint, reading one JSON
    chunk per line (NDJSON) from a streaming HTTP response, retrying
    transient failures through github.com/hashicorp/go-retryablehttp
    with jittered backoff from github.com/cenkalti/backoff/v4.

Callers pick whichever transport matches the config section populated
for their node; pkg/sync depends only on the ShardNodeClient interface.
*/
package shardrpc
