// Package embedder turns cast text into vectors and keeps
// CastEmbedding rows current via Backfill, a bounded-concurrency scan
// over casts missing an embedding. Two Embedder implementations ship:
// HTTPEmbedder (a remote batching endpoint, same retryablehttp/backoff
// stack as pkg/shardrpc) and LocalEmbedder (a stub extension point for
// an in-process CGO/ONNX backend, out of scope here). Backfill itself
// is backend-agnostic — it only depends on the Embedder interface.
package embedder
