package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snaprag/snaprag/pkg/batch"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/types"
)

// maxBindParams is Postgres's hard ceiling on parameters bound to a
// single extended-protocol statement. Every bulk statement below
// chunks its rows so rows*paramsPerRow stays under it.
const maxBindParams = 65535

// chunkSize returns how many rows of paramsPerRow params each can
// appear in one statement.
func chunkSize(paramsPerRow int) int {
	n := maxBindParams / paramsPerRow
	if n < 1 {
		n = 1
	}
	return n
}

// FlushBatch persists b inside a single transaction with a 30s
// statement timeout. The whole call is atomic: any error rolls back
// every row, including FID ensures. The caller's high-water advance
// runs after this commit and is not part of the transaction.
func (s *PostgresStore) FlushBatch(ctx context.Context, b *batch.Batch) error {
	if b == nil || b.IsEmpty() {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return wrapPGError("flush_batch begin", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SET LOCAL statement_timeout = '30s'`); err != nil {
		return wrapPGError("flush_batch set timeout", err)
	}

	if err := ensureFIDs(ctx, tx, b.FIDsToEnsure); err != nil {
		return err
	}
	if err := flushCasts(ctx, tx, b.Casts); err != nil {
		return err
	}
	if err := flushCastRemoves(ctx, tx, b.CastRemoves); err != nil {
		return err
	}
	if err := flushLinks(ctx, tx, b.Links, b.LinkRemoves); err != nil {
		return err
	}
	if err := flushReactions(ctx, tx, b.Reactions, b.ReactionRemoves); err != nil {
		return err
	}
	if err := flushVerifications(ctx, tx, b.Verifications, b.VerificationRemoves); err != nil {
		return err
	}
	if err := flushProfileUpdates(ctx, tx, b.ProfileUpdates); err != nil {
		return err
	}
	if err := flushUsernameProofs(ctx, tx, b.UsernameProofs); err != nil {
		return err
	}
	if err := flushFrameActions(ctx, tx, b.FrameActions); err != nil {
		return err
	}
	if err := flushOnChainEvents(ctx, tx, b.OnChainEvents); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapPGError("flush_batch commit", err)
	}

	log.WithComponent("storage").Debug().
		Int("casts", len(b.Casts)).
		Int("links", len(b.Links)+len(b.LinkRemoves)).
		Int("reactions", len(b.Reactions)+len(b.ReactionRemoves)).
		Int("verifications", len(b.Verifications)+len(b.VerificationRemoves)).
		Int("profile_updates", len(b.ProfileUpdates)).
		Msg("flushed batch")

	return nil
}

// ensureFIDs inserts a minimal profiles row for every FID referenced
// in this batch, so that later foreign references always resolve.
func ensureFIDs(ctx context.Context, tx pgx.Tx, fids map[uint64]struct{}) error {
	if len(fids) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(fids))
	for fid := range fids {
		ids = append(ids, fid)
	}
	for _, chunk := range chunkUint64(ids, chunkSize(1)) {
		_, err := tx.Exec(ctx, `
			INSERT INTO profiles (fid)
			SELECT u FROM UNNEST($1::bigint[]) AS u
			ON CONFLICT (fid) DO NOTHING
		`, chunk)
		if err != nil {
			return wrapPGError("ensure_fids", err)
		}
	}
	return nil
}

// flushCasts dedups by message_hash keeping the last occurrence (so a
// single statement never carries the same key twice) and writes in
// parameter-bounded chunks with ON CONFLICT DO NOTHING.
func flushCasts(ctx context.Context, tx pgx.Tx, casts []types.Cast) error {
	if len(casts) == 0 {
		return nil
	}
	deduped := dedupCasts(casts)

	const paramsPerRow = 8
	for _, chunk := range chunkCasts(deduped, chunkSize(paramsPerRow)) {
		hashes := make([]string, len(chunk))
		fids := make([]uint64, len(chunk))
		texts := make([]string, len(chunk))
		timestamps := make([]int64, len(chunk))
		parents := make([]*string, len(chunk))
		roots := make([]*string, len(chunk))
		embeds := make([][]byte, len(chunk))
		mentions := make([][]byte, len(chunk))
		for i, c := range chunk {
			hashes[i] = c.MessageHash
			fids[i] = c.FID
			texts[i] = c.Text
			timestamps[i] = c.Timestamp.Unix()
			parents[i] = c.ParentHash
			roots[i] = c.RootHash
			embeds[i] = c.Embeds
			mentions[i] = c.Mentions
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO casts (message_hash, fid, text, timestamp, parent_hash, root_hash, embeds, mentions)
			SELECT * FROM UNNEST($1::text[], $2::bigint[], $3::text[], to_timestamp(unnest($4::bigint[])), $5::text[], $6::text[], $7::bytea[], $8::bytea[])
			ON CONFLICT (message_hash) DO NOTHING
		`, hashes, fids, texts, timestamps, parents, roots, embeds, mentions)
		if err != nil {
			return wrapPGError("flush_casts", err)
		}
	}
	return nil
}

func dedupCasts(casts []types.Cast) []types.Cast {
	seen := make(map[string]int, len(casts))
	out := make([]types.Cast, 0, len(casts))
	for _, c := range casts {
		if idx, ok := seen[c.MessageHash]; ok {
			out[idx] = c
			continue
		}
		seen[c.MessageHash] = len(out)
		out = append(out, c)
	}
	return out
}

// flushCastRemoves hard-deletes the target casts. Unlike
// Link/Reaction/Verification, Cast carries no soft-delete column:
// Farcaster's CastRemove is a genuine tombstone, not a new event row.
func flushCastRemoves(ctx context.Context, tx pgx.Tx, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}
	for _, chunk := range chunkStrings(hashes, chunkSize(1)) {
		_, err := tx.Exec(ctx, `DELETE FROM casts WHERE message_hash = ANY($1::text[])`, chunk)
		if err != nil {
			return wrapPGError("flush_cast_removes", err)
		}
	}
	return nil
}

func flushLinks(ctx context.Context, tx pgx.Tx, adds, removes []types.Link) error {
	if err := insertLinkRows(ctx, tx, adds, types.EventTypeAdd); err != nil {
		return err
	}
	if err := insertLinkRows(ctx, tx, removes, types.EventTypeRemove); err != nil {
		return err
	}
	return applyLinkRemovals(ctx, tx, removes)
}

func insertLinkRows(ctx context.Context, tx pgx.Tx, rows []types.Link, eventType types.EventType) error {
	if len(rows) == 0 {
		return nil
	}
	const paramsPerRow = 6
	for _, chunk := range chunkLinks(rows, chunkSize(paramsPerRow)) {
		hashes := make([]string, len(chunk))
		fids := make([]uint64, len(chunk))
		targets := make([]uint64, len(chunk))
		linkTypes := make([]string, len(chunk))
		timestamps := make([]int64, len(chunk))
		for i, l := range chunk {
			hashes[i] = l.MessageHash
			fids[i] = l.FID
			targets[i] = l.TargetFID
			linkTypes[i] = l.LinkType
			timestamps[i] = l.Timestamp.Unix()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO links (message_hash, fid, target_fid, link_type, event_type, timestamp)
			SELECT h, f, t, lt, $5, to_timestamp(ts)
			FROM UNNEST($1::text[], $2::bigint[], $3::bigint[], $4::text[], $6::bigint[]) AS u(h, f, t, lt, ts)
			ON CONFLICT (message_hash) DO NOTHING
		`, hashes, fids, targets, linkTypes, eventType, timestamps)
		if err != nil {
			return wrapPGError("flush_links insert", err)
		}
	}
	return nil
}

// applyLinkRemovals denormalizes removed_at onto every matching add
// row not yet marked removed whose timestamp is at or before the
// remove's, for fast "is this link active" reads, per the soft-delete
// shortcut the data model calls for.
func applyLinkRemovals(ctx context.Context, tx pgx.Tx, removes []types.Link) error {
	if len(removes) == 0 {
		return nil
	}
	fids := make([]uint64, len(removes))
	targets := make([]uint64, len(removes))
	linkTypes := make([]string, len(removes))
	timestamps := make([]int64, len(removes))
	for i, l := range removes {
		fids[i] = l.FID
		targets[i] = l.TargetFID
		linkTypes[i] = l.LinkType
		timestamps[i] = l.Timestamp.Unix()
	}
	_, err := tx.Exec(ctx, `
		UPDATE links l SET removed_at = to_timestamp(u.ts)
		FROM UNNEST($1::bigint[], $2::bigint[], $3::text[], $4::bigint[]) AS u(fid, target_fid, link_type, ts)
		WHERE l.fid = u.fid AND l.target_fid = u.target_fid AND l.link_type = u.link_type
		  AND l.event_type = 'add' AND l.removed_at IS NULL AND l.timestamp <= to_timestamp(u.ts)
	`, fids, targets, linkTypes, timestamps)
	return wrapPGError("flush_links apply_removals", err)
}

func flushReactions(ctx context.Context, tx pgx.Tx, adds, removes []types.Reaction) error {
	if err := insertReactionRows(ctx, tx, adds, types.EventTypeAdd); err != nil {
		return err
	}
	if err := insertReactionRows(ctx, tx, removes, types.EventTypeRemove); err != nil {
		return err
	}
	return applyReactionRemovals(ctx, tx, removes)
}

func insertReactionRows(ctx context.Context, tx pgx.Tx, rows []types.Reaction, eventType types.EventType) error {
	if len(rows) == 0 {
		return nil
	}
	const paramsPerRow = 6
	for _, chunk := range chunkReactions(rows, chunkSize(paramsPerRow)) {
		hashes := make([]string, len(chunk))
		fids := make([]uint64, len(chunk))
		targetHashes := make([]string, len(chunk))
		targetFIDs := make([]*uint64, len(chunk))
		reactionTypes := make([]int16, len(chunk))
		timestamps := make([]int64, len(chunk))
		for i, r := range chunk {
			hashes[i] = r.MessageHash
			fids[i] = r.FID
			targetHashes[i] = r.TargetCastHash
			targetFIDs[i] = r.TargetFID
			reactionTypes[i] = int16(r.ReactionType)
			timestamps[i] = r.Timestamp.Unix()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO reactions (message_hash, fid, target_cast_hash, target_fid, reaction_type, event_type, timestamp)
			SELECT h, f, th, tf, rt, $6, to_timestamp(ts)
			FROM UNNEST($1::text[], $2::bigint[], $3::text[], $4::bigint[], $5::smallint[], $7::bigint[]) AS u(h, f, th, tf, rt, ts)
			ON CONFLICT (message_hash) DO NOTHING
		`, hashes, fids, targetHashes, targetFIDs, reactionTypes, eventType, timestamps)
		if err != nil {
			return wrapPGError("flush_reactions insert", err)
		}
	}
	return nil
}

func applyReactionRemovals(ctx context.Context, tx pgx.Tx, removes []types.Reaction) error {
	if len(removes) == 0 {
		return nil
	}
	fids := make([]uint64, len(removes))
	targetHashes := make([]string, len(removes))
	reactionTypes := make([]int16, len(removes))
	timestamps := make([]int64, len(removes))
	for i, r := range removes {
		fids[i] = r.FID
		targetHashes[i] = r.TargetCastHash
		reactionTypes[i] = int16(r.ReactionType)
		timestamps[i] = r.Timestamp.Unix()
	}
	_, err := tx.Exec(ctx, `
		UPDATE reactions r SET removed_at = to_timestamp(u.ts)
		FROM UNNEST($1::bigint[], $2::text[], $3::smallint[], $4::bigint[]) AS u(fid, target_cast_hash, reaction_type, ts)
		WHERE r.fid = u.fid AND r.target_cast_hash = u.target_cast_hash AND r.reaction_type = u.reaction_type
		  AND r.event_type = 'add' AND r.removed_at IS NULL AND r.timestamp <= to_timestamp(u.ts)
	`, fids, targetHashes, reactionTypes, timestamps)
	return wrapPGError("flush_reactions apply_removals", err)
}

func flushVerifications(ctx context.Context, tx pgx.Tx, adds, removes []types.Verification) error {
	if err := insertVerificationRows(ctx, tx, adds, types.EventTypeAdd); err != nil {
		return err
	}
	if err := insertVerificationRows(ctx, tx, removes, types.EventTypeRemove); err != nil {
		return err
	}
	return applyVerificationRemovals(ctx, tx, removes)
}

func insertVerificationRows(ctx context.Context, tx pgx.Tx, rows []types.Verification, eventType types.EventType) error {
	if len(rows) == 0 {
		return nil
	}
	const paramsPerRow = 6
	for _, chunk := range chunkVerifications(rows, chunkSize(paramsPerRow)) {
		hashes := make([]string, len(chunk))
		fids := make([]uint64, len(chunk))
		addresses := make([][]byte, len(chunk))
		verTypes := make([]int16, len(chunk))
		chainIDs := make([]uint32, len(chunk))
		timestamps := make([]int64, len(chunk))
		for i, v := range chunk {
			hashes[i] = v.MessageHash
			fids[i] = v.FID
			addresses[i] = v.Address
			verTypes[i] = int16(v.VerificationType)
			chainIDs[i] = v.ChainID
			timestamps[i] = v.Timestamp.Unix()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO verifications (message_hash, fid, address, verification_type, chain_id, event_type, timestamp)
			SELECT h, f, a, vt, ci, $6, to_timestamp(ts)
			FROM UNNEST($1::text[], $2::bigint[], $3::bytea[], $4::smallint[], $5::integer[], $7::bigint[]) AS u(h, f, a, vt, ci, ts)
			ON CONFLICT (message_hash) DO NOTHING
		`, hashes, fids, addresses, verTypes, chainIDs, eventType, timestamps)
		if err != nil {
			return wrapPGError("flush_verifications insert", err)
		}
	}
	return nil
}

func applyVerificationRemovals(ctx context.Context, tx pgx.Tx, removes []types.Verification) error {
	if len(removes) == 0 {
		return nil
	}
	fids := make([]uint64, len(removes))
	addresses := make([][]byte, len(removes))
	timestamps := make([]int64, len(removes))
	for i, v := range removes {
		fids[i] = v.FID
		addresses[i] = v.Address
		timestamps[i] = v.Timestamp.Unix()
	}
	_, err := tx.Exec(ctx, `
		UPDATE verifications v SET removed_at = to_timestamp(u.ts)
		FROM UNNEST($1::bigint[], $2::bytea[], $3::bigint[]) AS u(fid, address, ts)
		WHERE v.fid = u.fid AND v.address = u.address
		  AND v.event_type = 'add' AND v.removed_at IS NULL AND v.timestamp <= to_timestamp(u.ts)
	`, fids, addresses, timestamps)
	return wrapPGError("flush_verifications apply_removals", err)
}

// flushProfileUpdates applies one set-based UPDATE per field name, each
// driven by three parallel arrays, guarded so a stale out-of-order
// event never clobbers a newer value for the same field. It also
// appends the raw events to profile_fields, the append-only audit log
// that backs the event-source-projection invariant.
func flushProfileUpdates(ctx context.Context, tx pgx.Tx, updates []types.ProfileField) error {
	if len(updates) == 0 {
		return nil
	}

	if err := appendProfileFieldEvents(ctx, tx, updates); err != nil {
		return err
	}

	byField := make(map[string][]types.ProfileField)
	for _, u := range updates {
		byField[u.FieldName] = append(byField[u.FieldName], u)
	}

	for field, rows := range byField {
		column, ok := profileColumnFor(field)
		if !ok {
			continue
		}
		// Keep only the last occurrence per FID within this field so
		// the set-based UPDATE doesn't apply the same key twice.
		latest := make(map[uint64]types.ProfileField, len(rows))
		for _, r := range rows {
			if prev, ok := latest[r.FID]; !ok || r.Timestamp.After(prev.Timestamp) ||
				(r.Timestamp.Equal(prev.Timestamp) && r.MessageHash > prev.MessageHash) {
				latest[r.FID] = r
			}
		}
		fids := make([]uint64, 0, len(latest))
		values := make([]string, 0, len(latest))
		timestamps := make([]int64, 0, len(latest))
		for _, r := range latest {
			fids = append(fids, r.FID)
			values = append(values, r.FieldValue)
			timestamps = append(timestamps, r.Timestamp.Unix())
		}

		tsColumn := column + "_ts"
		query := fmt.Sprintf(`
			INSERT INTO profiles (fid, %[1]s, %[2]s)
			SELECT u.fid, u.val, to_timestamp(u.ts)
			FROM UNNEST($1::bigint[], $2::text[], $3::bigint[]) AS u(fid, val, ts)
			ON CONFLICT (fid) DO UPDATE SET
				%[1]s = CASE WHEN EXCLUDED.%[2]s >= profiles.%[2]s OR profiles.%[2]s IS NULL
					THEN EXCLUDED.%[1]s ELSE profiles.%[1]s END,
				%[2]s = GREATEST(EXCLUDED.%[2]s, profiles.%[2]s)
		`, column, tsColumn)

		if _, err := tx.Exec(ctx, query, fids, values, timestamps); err != nil {
			return wrapPGError("flush_profile_updates:"+field, err)
		}
	}
	return nil
}

func appendProfileFieldEvents(ctx context.Context, tx pgx.Tx, updates []types.ProfileField) error {
	const paramsPerRow = 5
	for _, chunk := range chunkProfileFields(updates, chunkSize(paramsPerRow)) {
		fids := make([]uint64, len(chunk))
		fieldNames := make([]string, len(chunk))
		fieldValues := make([]string, len(chunk))
		timestamps := make([]int64, len(chunk))
		hashes := make([]string, len(chunk))
		for i, u := range chunk {
			fids[i] = u.FID
			fieldNames[i] = u.FieldName
			fieldValues[i] = u.FieldValue
			timestamps[i] = u.Timestamp.Unix()
			hashes[i] = u.MessageHash
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO profile_fields (fid, field_name, field_value, timestamp, message_hash)
			SELECT * FROM UNNEST($1::bigint[], $2::text[], $3::text[], to_timestamp(unnest($4::bigint[])), $5::text[])
			ON CONFLICT (message_hash) DO NOTHING
		`, fids, fieldNames, fieldValues, timestamps, hashes)
		if err != nil {
			return wrapPGError("append_profile_field_events", err)
		}
	}
	return nil
}

// profileColumnFor maps a UserDataAdd field name to its materialized
// profiles column. The three "primary_address_*"/"profile_token"
// fields have no dedicated column on the thin Profile projection
// pkg/retrieval reads, so they're recorded in profile_fields only.
func profileColumnFor(field string) (string, bool) {
	switch field {
	case "pfp_url", "display_name", "bio", "website_url", "username",
		"location", "twitter_username", "github_username", "banner_url":
		return field, true
	default:
		return "", false
	}
}

func flushUsernameProofs(ctx context.Context, tx pgx.Tx, proofs []types.UsernameProof) error {
	if len(proofs) == 0 {
		return nil
	}
	const paramsPerRow = 6
	for _, chunk := range chunkUsernameProofs(proofs, chunkSize(paramsPerRow)) {
		fids := make([]uint64, len(chunk))
		usernameTypes := make([]int16, len(chunk))
		usernames := make([]string, len(chunk))
		owners := make([][]byte, len(chunk))
		sigs := make([][]byte, len(chunk))
		timestamps := make([]int64, len(chunk))
		for i, p := range chunk {
			fids[i] = p.FID
			usernameTypes[i] = p.UsernameType
			usernames[i] = p.Username
			owners[i] = p.OwnerAddress
			sigs[i] = p.Signature
			timestamps[i] = p.Timestamp.Unix()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO username_proofs (fid, username_type, username, owner_address, signature, timestamp)
			SELECT * FROM UNNEST($1::bigint[], $2::smallint[], $3::text[], $4::bytea[], $5::bytea[], to_timestamp(unnest($6::bigint[])))
			ON CONFLICT (fid, username_type) DO UPDATE SET
				username = EXCLUDED.username,
				owner_address = EXCLUDED.owner_address,
				signature = EXCLUDED.signature,
				timestamp = EXCLUDED.timestamp
			WHERE EXCLUDED.timestamp >= username_proofs.timestamp
		`, fids, usernameTypes, usernames, owners, sigs, timestamps)
		if err != nil {
			return wrapPGError("flush_username_proofs", err)
		}
	}
	return nil
}

func flushFrameActions(ctx context.Context, tx pgx.Tx, actions []types.FrameAction) error {
	if len(actions) == 0 {
		return nil
	}
	const paramsPerRow = 9
	for _, chunk := range chunkFrameActions(actions, chunkSize(paramsPerRow)) {
		hashes := make([]string, len(chunk))
		fids := make([]uint64, len(chunk))
		urls := make([]string, len(chunk))
		buttons := make([]*int32, len(chunk))
		castHashes := make([]*string, len(chunk))
		castFIDs := make([]*uint64, len(chunk))
		inputs := make([]*string, len(chunk))
		states := make([][]byte, len(chunk))
		timestamps := make([]int64, len(chunk))
		for i, a := range chunk {
			hashes[i] = a.MessageHash
			fids[i] = a.FID
			urls[i] = a.URL
			buttons[i] = a.ButtonIndex
			castHashes[i] = a.CastHash
			castFIDs[i] = a.CastFID
			inputs[i] = a.InputText
			states[i] = a.State
			timestamps[i] = a.Timestamp.Unix()
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO frame_actions (message_hash, fid, url, button_index, cast_hash, cast_fid, input_text, state, timestamp)
			SELECT * FROM UNNEST($1::text[], $2::bigint[], $3::text[], $4::integer[], $5::text[], $6::bigint[], $7::text[], $8::bytea[], to_timestamp(unnest($9::bigint[])))
			ON CONFLICT (message_hash) DO NOTHING
		`, hashes, fids, urls, buttons, castHashes, castFIDs, inputs, states, timestamps)
		if err != nil {
			return wrapPGError("flush_frame_actions", err)
		}
	}
	return nil
}

func flushOnChainEvents(ctx context.Context, tx pgx.Tx, events []types.OnChainEvent) error {
	if len(events) == 0 {
		return nil
	}
	const paramsPerRow = 9
	for _, chunk := range chunkOnChainEvents(events, chunkSize(paramsPerRow)) {
		fids := make([]uint64, len(chunk))
		eventTypes := make([]string, len(chunk))
		chainIDs := make([]uint32, len(chunk))
		blockNumbers := make([]uint64, len(chunk))
		blockHashes := make([][]byte, len(chunk))
		blockTimestamps := make([]int64, len(chunk))
		txHashes := make([][]byte, len(chunk))
		logIndexes := make([]*int32, len(chunk))
		eventData := make([][]byte, len(chunk))
		for i, e := range chunk {
			fids[i] = e.FID
			eventTypes[i] = string(e.EventType)
			chainIDs[i] = e.ChainID
			blockNumbers[i] = e.BlockNumber
			blockHashes[i] = e.BlockHash
			blockTimestamps[i] = e.BlockTimestamp.Unix()
			txHashes[i] = e.TxHash
			logIndexes[i] = e.LogIndex
			eventData[i] = e.EventData
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO onchain_events (fid, event_type, chain_id, block_number, block_hash, block_timestamp, tx_hash, log_index, event_data)
			SELECT * FROM UNNEST($1::bigint[], $2::text[], $3::integer[], $4::bigint[], $5::bytea[], to_timestamp(unnest($6::bigint[])), $7::bytea[], $8::integer[], $9::jsonb[])
			ON CONFLICT (fid, event_type, block_number, log_index) DO NOTHING
		`, fids, eventTypes, chainIDs, blockNumbers, blockHashes, blockTimestamps, txHashes, logIndexes, eventData)
		if err != nil {
			return wrapPGError("flush_onchain_events", err)
		}
	}
	return nil
}

func chunkUint64(rows []uint64, size int) [][]uint64 {
	var out [][]uint64
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkStrings(rows []string, size int) [][]string {
	var out [][]string
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkCasts(rows []types.Cast, size int) [][]types.Cast {
	var out [][]types.Cast
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkLinks(rows []types.Link, size int) [][]types.Link {
	var out [][]types.Link
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkReactions(rows []types.Reaction, size int) [][]types.Reaction {
	var out [][]types.Reaction
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkVerifications(rows []types.Verification, size int) [][]types.Verification {
	var out [][]types.Verification
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkProfileFields(rows []types.ProfileField, size int) [][]types.ProfileField {
	var out [][]types.ProfileField
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkUsernameProofs(rows []types.UsernameProof, size int) [][]types.UsernameProof {
	var out [][]types.UsernameProof
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkFrameActions(rows []types.FrameAction, size int) [][]types.FrameAction {
	var out [][]types.FrameAction
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}

func chunkOnChainEvents(rows []types.OnChainEvent, size int) [][]types.OnChainEvent {
	var out [][]types.OnChainEvent
	for len(rows) > 0 {
		n := size
		if n > len(rows) {
			n = len(rows)
		}
		out = append(out, rows[:n])
		rows = rows[n:]
	}
	return out
}
