/*
Package types defines the core data structures shared across snaprag's
ingestion and retrieval pipeline.

This package contains the domain model for a Snapchain shard's event
stream once decoded: casts, links, reactions, verifications, on-chain
events, frame actions, the event-sourced profile-field log, and the
vector-embedding projection of a cast. These types flow from
pkg/parser into pkg/batch, are persisted by pkg/storage, and are read
back by pkg/retrieval — this package has no dependency on any of them.

# Core Types

Content:
  - Cast: a post, optionally threaded via ParentHash/RootHash
  - CastEmbedding: the vector-search projection of a Cast's text

Social graph:
  - Link: a follow-type relation, append-only (add/remove rows)
  - Reaction: a like/recast targeting a cast or a URL

Identity:
  - ProfileField: one event-sourced field-change event
  - Profile: the projected, current view over ProfileField rows
  - Verification: an FID bound to an on-chain address
  - UsernameProof: an upsert keyed on (FID, UsernameType)

Chain history:
  - OnChainEvent: id_register / storage_rent / signer / tier_purchase
  - SyncProgress: the durable per-shard high-water mark

Other:
  - FrameAction: an append-only frame interaction record

# Design Patterns

Enumeration pattern: every enum is a typed string or small int constant
set (MessageType, EventType, ReactionType, VerificationType,
SyncStatus), matching how the rest of the corpus represents closed
vocabularies.

Append-only soft delete: Link, Reaction, and Verification never have
their add-row mutated. A remove is a new row with EventType=remove; a
RemovedAt timestamp is set on the prior add row only as a denormalized
query shortcut, computed during flush_batch, never as the source of
truth (the source of truth is always "max-timestamp row per key").

Optional fields use pointers (ParentHash, TargetFID, RemovedAt, …); nil
means "absent," not "zero."

# Thread Safety

All types here are plain data. None of them synchronize internally;
callers (pkg/batch, pkg/storage) own whatever concurrency discipline
applies to a given slice or map of these values.
*/
package types
