// Package batch accumulates parsed messages from one or more
// consecutive shard chunks until the owning poller decides to flush
// them to storage in a single transaction.
package batch

import "github.com/snaprag/snaprag/pkg/types"

// Batch is a single-owner, mutex-free accumulator. Exactly one shard
// poll loop holds a *Batch at a time; it is never shared across
// goroutines, so it needs no broadcast/subscribe machinery — it is
// filled by the parser and handed to storage whole.
type Batch struct {
	Casts         []types.Cast
	CastRemoves   []string // message_hash of the removed cast
	Links         []types.Link
	LinkRemoves   []types.Link
	Reactions     []types.Reaction
	ReactionRemoves []types.Reaction
	Verifications []types.Verification
	VerificationRemoves []types.Verification
	ProfileUpdates []types.ProfileField
	UsernameProofs []types.UsernameProof
	FrameActions  []types.FrameAction
	OnChainEvents []types.OnChainEvent

	// FIDsToEnsure collects every FID observed in this batch so storage
	// can upsert a placeholder row before any foreign-key-dependent
	// insert runs, even for an FID whose first-ever message is, say, a
	// reaction rather than an id_register event.
	FIDsToEnsure map[uint64]struct{}
}

// New returns an empty Batch ready to accumulate.
func New() *Batch {
	return &Batch{
		FIDsToEnsure: make(map[uint64]struct{}),
	}
}

// IsEmpty reports whether the batch has nothing to flush.
func (b *Batch) IsEmpty() bool {
	return len(b.Casts) == 0 &&
		len(b.CastRemoves) == 0 &&
		len(b.Links) == 0 &&
		len(b.LinkRemoves) == 0 &&
		len(b.Reactions) == 0 &&
		len(b.ReactionRemoves) == 0 &&
		len(b.Verifications) == 0 &&
		len(b.VerificationRemoves) == 0 &&
		len(b.ProfileUpdates) == 0 &&
		len(b.UsernameProofs) == 0 &&
		len(b.FrameActions) == 0 &&
		len(b.OnChainEvents) == 0
}

// Len returns the total number of rows the batch holds across every
// entity kind, used for flush-size logging and the row-count metric.
func (b *Batch) Len() int {
	return len(b.Casts) + len(b.CastRemoves) +
		len(b.Links) + len(b.LinkRemoves) +
		len(b.Reactions) + len(b.ReactionRemoves) +
		len(b.Verifications) + len(b.VerificationRemoves) +
		len(b.ProfileUpdates) + len(b.UsernameProofs) +
		len(b.FrameActions) + len(b.OnChainEvents)
}

// EnsureFID records that fid was observed in this batch.
func (b *Batch) EnsureFID(fid uint64) {
	b.FIDsToEnsure[fid] = struct{}{}
}

// Merge appends other's rows onto b, so a batch can span multiple
// consecutive chunks before a flush is triggered. other is left
// unmodified; callers typically discard it after Merge.
func (b *Batch) Merge(other *Batch) {
	if other == nil {
		return
	}

	b.Casts = append(b.Casts, other.Casts...)
	b.CastRemoves = append(b.CastRemoves, other.CastRemoves...)
	b.Links = append(b.Links, other.Links...)
	b.LinkRemoves = append(b.LinkRemoves, other.LinkRemoves...)
	b.Reactions = append(b.Reactions, other.Reactions...)
	b.ReactionRemoves = append(b.ReactionRemoves, other.ReactionRemoves...)
	b.Verifications = append(b.Verifications, other.Verifications...)
	b.VerificationRemoves = append(b.VerificationRemoves, other.VerificationRemoves...)
	b.ProfileUpdates = append(b.ProfileUpdates, other.ProfileUpdates...)
	b.UsernameProofs = append(b.UsernameProofs, other.UsernameProofs...)
	b.FrameActions = append(b.FrameActions, other.FrameActions...)
	b.OnChainEvents = append(b.OnChainEvents, other.OnChainEvents...)

	for fid := range other.FIDsToEnsure {
		b.FIDsToEnsure[fid] = struct{}{}
	}
}
