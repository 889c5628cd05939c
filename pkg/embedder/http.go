package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-retryablehttp"
)

// HTTPEmbedder calls a remote embedding endpoint (e.g. an OpenAI-style
// /embeddings route) over the same retryablehttp/backoff stack
// pkg/shardrpc uses for node RPC, batching up to maxBatch texts per
// request.
type HTTPEmbedder struct {
	endpoint string
	model    string
	maxBatch int
	http     *retryablehttp.Client
}

// NewHTTPEmbedder builds an HTTPEmbedder against endpoint using model,
// batching requests at maxBatch texts.
func NewHTTPEmbedder(endpoint, model string, maxBatch int) *HTTPEmbedder {
	if maxBatch <= 0 {
		maxBatch = 64
	}

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

	return &HTTPEmbedder{endpoint: endpoint, model: model, maxBatch: maxBatch, http: rc}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed embeds texts in chunks of maxBatch, preserving input order in
// the returned slice.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += e.maxBatch {
		end := start + e.maxBatch
		if end > len(texts) {
			end = len(texts)
		}
		chunk := texts[start:end]

		vectors, err := e.embedChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk [%d:%d]: %w", start, end, err)
		}
		copy(out[start:end], vectors)
	}

	return out, nil
}

func (e *HTTPEmbedder) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed: unexpected status %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}

	vectors := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			continue
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
