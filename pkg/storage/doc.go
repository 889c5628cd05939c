/*
Package storage is snaprag's single owner of persistent state: every
other component either sends it a batch to flush or asks it a read
question, never touches Postgres directly.

# Architecture

	┌──────────────────────── PostgresStore ───────────────────────┐
	│                                                                 │
	│  FlushBatch(batch)                                             │
	│    one transaction, 30s statement_timeout:                    │
	│      ensure FIDs → casts/removes → links → reactions →        │
	│      verifications → profile projection → username proofs →  │
	│      frame actions → onchain events → commit                  │
	│                                                                 │
	│  Reads: GetProfile, CastsForUser, SemanticSearchCasts,         │
	│         HybridSearchProfiles, sync progress, embedding gaps    │
	└─────────────────────────────────────────────────────────────────┘

Every bulk write chunks rows so bound_params stays under Postgres's
~65,535 ceiling (batch_sql.go's chunkSize). Casts are deduped by
message_hash before chunking, keeping the last occurrence. The
message_hash-keyed tables use ON CONFLICT (message_hash) DO NOTHING
for idempotent appends; username_proofs upserts on
(fid, username_type), and onchain_events skips rows that repeat
(fid, event_type, block_number, log_index).
Link/Reaction/Verification removes are new rows (event_type=remove)
that also denormalize removed_at onto the matching add row, so "is
this active" reads stay a single indexed lookup. CastRemove is the one
hard delete: Farcaster's cast removal has no soft-delete column in the
data model, unlike the other three.

Profile fields are dual-written: profile_fields is the append-only
audit log (one row per field-change event, keyed by message_hash), and
profiles is a materialized projection kept in sync by a set-based
UPDATE guarded per-field by a `_ts` column — a stale, out-of-order
event can never regress a field that already has a newer value.

# Errors

Every pgx call is routed through wrapPGError, which maps
pgconn.PgError codes onto pkg/errtag categories: unique-violation
outside the append path is DataError, serialization/deadlock is
Serialization (retryable), anything else Postgres-shaped is DataError,
and a non-Postgres error (pool exhaustion, context deadline) is
Transient.

# Migrations

Migrate applies every file under migrations/ not yet recorded in
schema_migrations, then creates cast_embeddings with the configured
vector width (pgvector needs a fixed dimension to index against) and
its ivfflat index, gated by performance.enable_vector_indexes.
*/
package storage
