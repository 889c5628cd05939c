package shardrpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/snaprag/snaprag/pkg/log"
)

// HTTPClient implements ShardNodeClient over sync.http_endpoint. The
// node streams one JSON chunk per line (NDJSON); GetBlocks reads the
// response body line by line rather than buffering the whole range.
type HTTPClient struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewHTTPClient builds an HTTPClient against baseURL, retrying
// transient failures with jittered exponential backoff.
func NewHTTPClient(baseURL string) *HTTPClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 5
	rc.Logger = nil
	rc.Backoff = func(min, max time.Duration, attempt int, resp *http.Response) time.Duration {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = min
		eb.MaxInterval = max
		eb.MaxElapsedTime = 0
		eb.Reset()
		d := eb.NextBackOff()
		for i := 0; i < attempt; i++ {
			d = eb.NextBackOff()
		}
		if d == backoff.Stop {
			return max
		}
		return d
	}

	return &HTTPClient{baseURL: baseURL, http: rc}
}

func (c *HTTPClient) GetBlocks(ctx context.Context, shardID uint32, fromHeight uint64, toHeight *uint64) (<-chan ShardChunk, <-chan error) {
	out := make(chan ShardChunk)
	errc := make(chan error, 1)

	go func() {
		defer close(out)

		q := url.Values{}
		q.Set("shard_id", strconv.FormatUint(uint64(shardID), 10))
		q.Set("from_height", strconv.FormatUint(fromHeight, 10))
		if toHeight != nil {
			q.Set("to_height", strconv.FormatUint(*toHeight, 10))
		}

		reqURL := c.baseURL + "/blocks?" + q.Encode()
		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			errc <- fmt.Errorf("build get_blocks request: %w", err)
			return
		}

		resp, err := c.http.Do(req)
		if err != nil {
			errc <- fmt.Errorf("get_blocks request: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			errc <- fmt.Errorf("get_blocks: unexpected status %d", resp.StatusCode)
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			var chunk ShardChunk
			if err := json.Unmarshal(line, &chunk); err != nil {
				log.WithShard(shardID).Warn().Err(err).Msg("dropping malformed ndjson chunk")
				continue
			}

			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			errc <- fmt.Errorf("get_blocks stream: %w", err)
		}
	}()

	return out, errc
}

func (c *HTTPClient) GetBlockRange(ctx context.Context, shardID uint32) (uint64, uint64, error) {
	q := url.Values{}
	q.Set("shard_id", strconv.FormatUint(uint64(shardID), 10))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/block_range?"+q.Encode(), nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build get_block_range request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("get_block_range request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("get_block_range: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Min uint64 `json:"min"`
		Max uint64 `json:"max"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, fmt.Errorf("decode get_block_range response: %w", err)
	}

	return body.Min, body.Max, nil
}

func (c *HTTPClient) Close() error {
	c.http.HTTPClient.CloseIdleConnections()
	return nil
}
