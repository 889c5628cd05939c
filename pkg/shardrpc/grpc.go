package shardrpc

import (
	"context"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/snaprag/snaprag/pkg/log"
)

const (
	serviceName          = "/snaprag.ShardNode/"
	methodGetBlocks      = serviceName + "GetBlocks"
	methodGetBlockRange  = serviceName + "GetBlockRange"
)

// GRPCClient implements ShardNodeClient over sync.grpc_endpoint using
// the JSON codec registered in codec.go in place of generated
// protobuf stubs.
type GRPCClient struct {
	conn *grpc.ClientConn
}

// NewGRPCClient dials addr with insecure transport credentials — shard
// nodes are read-only public chain data sources, not a trust boundary
// this client authenticates against.
func NewGRPCClient(addr string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(jsonCodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("dial shard node %s: %w", addr, err)
	}

	return &GRPCClient{conn: conn}, nil
}

type getBlocksRequest struct {
	ShardID    uint32  `json:"shard_id"`
	FromHeight uint64  `json:"from_height"`
	ToHeight   *uint64 `json:"to_height,omitempty"`
}

type getBlockRangeRequest struct {
	ShardID uint32 `json:"shard_id"`
}

type getBlockRangeResponse struct {
	Min uint64 `json:"min"`
	Max uint64 `json:"max"`
}

func (c *GRPCClient) GetBlocks(ctx context.Context, shardID uint32, fromHeight uint64, toHeight *uint64) (<-chan ShardChunk, <-chan error) {
	out := make(chan ShardChunk)
	errc := make(chan error, 1)

	go func() {
		defer close(out)

		stream, err := c.conn.NewStream(ctx, &grpc.StreamDesc{ServerStreams: true}, methodGetBlocks,
			grpc.CallContentSubtype(jsonCodecName))
		if err != nil {
			errc <- fmt.Errorf("open get_blocks stream: %w", err)
			return
		}

		req := getBlocksRequest{ShardID: shardID, FromHeight: fromHeight, ToHeight: toHeight}
		if err := stream.SendMsg(&req); err != nil {
			errc <- fmt.Errorf("send get_blocks request: %w", err)
			return
		}
		if err := stream.CloseSend(); err != nil {
			errc <- fmt.Errorf("close get_blocks send side: %w", err)
			return
		}

		for {
			var chunk ShardChunk
			if err := stream.RecvMsg(&chunk); err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				errc <- fmt.Errorf("receive shard chunk: %w", err)
				return
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, errc
}

func (c *GRPCClient) GetBlockRange(ctx context.Context, shardID uint32) (uint64, uint64, error) {
	req := getBlockRangeRequest{ShardID: shardID}
	var resp getBlockRangeResponse

	if err := c.conn.Invoke(ctx, methodGetBlockRange, &req, &resp, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return 0, 0, fmt.Errorf("get_block_range: %w", err)
	}

	return resp.Min, resp.Max, nil
}

func (c *GRPCClient) Close() error {
	log.WithComponent("shardrpc").Debug().Msg("closing gRPC shard node connection")
	return c.conn.Close()
}
