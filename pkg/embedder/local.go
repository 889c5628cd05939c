package embedder

import (
	"context"
	"fmt"
)

// LocalEmbedFunc is the extension point for an in-process embedding
// backend (CGO/ONNX runtime, GPU inference server bound over cgo).
// Implementing one is out of scope for this module.
type LocalEmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)

// LocalEmbedder wraps an injected LocalEmbedFunc. With none injected,
// Embed always errors — there's no pure-Go local backend to fall back
// to, so misconfiguration fails loudly instead of silently no-op'ing.
type LocalEmbedder struct {
	fn LocalEmbedFunc
}

// NewLocalEmbedder builds a LocalEmbedder around fn. A nil fn is
// valid; Embed then errors until one is injected via SetEmbedFunc.
func NewLocalEmbedder(fn LocalEmbedFunc) *LocalEmbedder {
	return &LocalEmbedder{fn: fn}
}

// SetEmbedFunc injects (or replaces) the backing implementation.
func (l *LocalEmbedder) SetEmbedFunc(fn LocalEmbedFunc) {
	l.fn = fn
}

func (l *LocalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if l.fn == nil {
		return nil, fmt.Errorf("local embedder: no LocalEmbedFunc configured")
	}
	return l.fn(ctx, texts)
}
