package batch

import (
	"testing"
	"time"

	"github.com/snaprag/snaprag/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestNewIsEmpty(t *testing.T) {
	b := New()
	assert.True(t, b.IsEmpty())
	assert.Equal(t, 0, b.Len())
}

func TestIsEmptyFalseAfterAppend(t *testing.T) {
	tests := []struct {
		name  string
		apply func(b *Batch)
	}{
		{"cast", func(b *Batch) { b.Casts = append(b.Casts, types.Cast{MessageHash: "0x1"}) }},
		{"cast remove", func(b *Batch) { b.CastRemoves = append(b.CastRemoves, "0x1") }},
		{"link", func(b *Batch) { b.Links = append(b.Links, types.Link{MessageHash: "0x1"}) }},
		{"reaction", func(b *Batch) { b.Reactions = append(b.Reactions, types.Reaction{MessageHash: "0x1"}) }},
		{"verification", func(b *Batch) { b.Verifications = append(b.Verifications, types.Verification{MessageHash: "0x1"}) }},
		{"profile update", func(b *Batch) { b.ProfileUpdates = append(b.ProfileUpdates, types.ProfileField{FID: 1}) }},
		{"username proof", func(b *Batch) { b.UsernameProofs = append(b.UsernameProofs, types.UsernameProof{FID: 1}) }},
		{"frame action", func(b *Batch) { b.FrameActions = append(b.FrameActions, types.FrameAction{MessageHash: "0x1"}) }},
		{"on-chain event", func(b *Batch) { b.OnChainEvents = append(b.OnChainEvents, types.OnChainEvent{FID: 1}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			tt.apply(b)
			assert.False(t, b.IsEmpty())
			assert.Equal(t, 1, b.Len())
		})
	}
}

func TestEnsureFID(t *testing.T) {
	b := New()
	b.EnsureFID(1)
	b.EnsureFID(2)
	b.EnsureFID(1)

	assert.Len(t, b.FIDsToEnsure, 2)
	_, ok := b.FIDsToEnsure[2]
	assert.True(t, ok)
}

func TestMerge(t *testing.T) {
	now := time.Now()

	a := New()
	a.Casts = append(a.Casts, types.Cast{MessageHash: "0x1", Timestamp: now})
	a.EnsureFID(1)

	b := New()
	b.Casts = append(b.Casts, types.Cast{MessageHash: "0x2", Timestamp: now})
	b.Links = append(b.Links, types.Link{MessageHash: "0x3"})
	b.EnsureFID(2)

	a.Merge(b)

	assert.Len(t, a.Casts, 2)
	assert.Len(t, a.Links, 1)
	assert.Len(t, a.FIDsToEnsure, 2)
	assert.Equal(t, 3, a.Len())

	// b is untouched by the merge.
	assert.Len(t, b.Casts, 1)
}

func TestMergeNilOther(t *testing.T) {
	a := New()
	a.Casts = append(a.Casts, types.Cast{MessageHash: "0x1"})

	assert.NotPanics(t, func() { a.Merge(nil) })
	assert.Len(t, a.Casts, 1)
}
