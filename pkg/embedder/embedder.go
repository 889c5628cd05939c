// Package embedder turns cast text into vector embeddings and drives
// the backfill engine that keeps CastEmbedding rows current.
package embedder

import "context"

// Embedder is the capability every embedding backend implements: a
// batch of texts in, a batch of equal-length vectors out, in order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
