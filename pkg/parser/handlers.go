package parser

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mr-tron/base58"

	"github.com/snaprag/snaprag/pkg/batch"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/shardrpc"
	"github.com/snaprag/snaprag/pkg/types"
)

func parseCastAdd(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time) error {
	var body castAddBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode cast add body: %w", err)
	}

	b.Casts = append(b.Casts, types.Cast{
		MessageHash: msg.Hash,
		FID:         msg.Data.FID,
		Text:        body.Text,
		Timestamp:   ts,
		ParentHash:  body.ParentHash,
		RootHash:    body.RootHash,
		Embeds:      []byte(body.Embeds),
		Mentions:    []byte(body.Mentions),
	})
	return nil
}

func parseCastRemove(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time) error {
	var body castRemoveBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode cast remove body: %w", err)
	}
	b.CastRemoves = append(b.CastRemoves, body.TargetHash)
	return nil
}

// urlTargetHash builds the synthetic target hash a URL-addressed
// reaction is keyed under, so a like/recast on a URL can share the
// same column as one targeting a cast hash. Kept as a plaintext
// prefix, not a cryptographic digest — see DESIGN.md's Open Question
// decision on this behavior.
func urlTargetHash(url string) string {
	return "url_" + url
}

func parseReaction(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time, isRemove bool) error {
	var body reactionBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode reaction body: %w", err)
	}

	var targetHash string
	var targetFID *uint64
	switch {
	case body.TargetCastHash != nil:
		targetHash = *body.TargetCastHash
		targetFID = body.TargetFID
	case body.TargetURL != nil:
		targetHash = urlTargetHash(*body.TargetURL)
	default:
		return fmt.Errorf("reaction body has neither target_cast_hash nor target_url")
	}

	r := types.Reaction{
		MessageHash:    msg.Hash,
		FID:            msg.Data.FID,
		TargetCastHash: targetHash,
		TargetFID:      targetFID,
		ReactionType:   types.ReactionType(body.ReactionType),
		Timestamp:      ts,
	}

	if isRemove {
		r.EventType = types.EventTypeRemove
		b.ReactionRemoves = append(b.ReactionRemoves, r)
	} else {
		r.EventType = types.EventTypeAdd
		b.Reactions = append(b.Reactions, r)
	}
	return nil
}

func parseLink(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time, isRemove bool) error {
	var body linkBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode link body: %w", err)
	}

	l := types.Link{
		MessageHash: msg.Hash,
		FID:         msg.Data.FID,
		TargetFID:   body.TargetFID,
		LinkType:    body.LinkType,
		Timestamp:   ts,
	}

	if isRemove {
		l.EventType = types.EventTypeRemove
		b.LinkRemoves = append(b.LinkRemoves, l)
	} else {
		l.EventType = types.EventTypeAdd
		b.Links = append(b.Links, l)
	}
	return nil
}

func parseVerification(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time, isRemove bool) error {
	var body verificationBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode verification body: %w", err)
	}

	var (
		addr []byte
		vt   types.VerificationType
		err  error
	)

	switch body.Protocol {
	case "ethereum":
		vt = types.VerificationTypeEthereum
		addr, err = hex.DecodeString(trimHexPrefix(body.Address))
		if err != nil {
			return fmt.Errorf("decode ethereum address: %w", err)
		}
	case "solana":
		vt = types.VerificationTypeSolana
		addr, err = base58.Decode(body.Address)
		if err != nil {
			return fmt.Errorf("decode solana address: %w", err)
		}
	default:
		return fmt.Errorf("unrecognized verification protocol %q", body.Protocol)
	}

	chainID := body.ChainID
	if vt == types.VerificationTypeSolana {
		chainID = types.SolanaChainID
	}

	v := types.Verification{
		MessageHash:      msg.Hash,
		FID:              msg.Data.FID,
		Address:          addr,
		VerificationType: vt,
		ChainID:          chainID,
		Timestamp:        ts,
	}

	if isRemove {
		b.VerificationRemoves = append(b.VerificationRemoves, v)
	} else {
		b.Verifications = append(b.Verifications, v)
	}
	return nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func parseUserDataAdd(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time) error {
	var body userDataAddBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode user data add body: %w", err)
	}

	field, ok := types.UserDataFieldFor(body.Type)
	if !ok {
		log.Logger.Debug().Int32("sub_type", body.Type).Str("message_hash", msg.Hash).
			Msg("unrecognized user data sub-type, dropping")
		return nil
	}

	b.ProfileUpdates = append(b.ProfileUpdates, types.ProfileField{
		FID:         msg.Data.FID,
		FieldName:   field,
		FieldValue:  body.Value,
		Timestamp:   ts,
		MessageHash: msg.Hash,
	})
	return nil
}

func parseUsernameProof(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time) error {
	var body usernameProofBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode username proof body: %w", err)
	}

	b.UsernameProofs = append(b.UsernameProofs, types.UsernameProof{
		FID:          msg.Data.FID,
		UsernameType: body.UsernameType,
		Username:     body.Username,
		OwnerAddress: []byte(body.OwnerAddress),
		Signature:    []byte(body.Signature),
		Timestamp:    ts,
	})
	return nil
}

func parseFrameAction(b *batch.Batch, msg shardrpc.UserMessage, ts time.Time) error {
	var body frameActionBody
	if err := json.Unmarshal(msg.Data.Body, &body); err != nil {
		return fmt.Errorf("decode frame action body: %w", err)
	}

	b.FrameActions = append(b.FrameActions, types.FrameAction{
		MessageHash:   msg.Hash,
		FID:           msg.Data.FID,
		URL:           body.URL,
		ButtonIndex:   body.ButtonIndex,
		CastHash:      body.CastHash,
		CastFID:       body.CastFID,
		InputText:     body.InputText,
		State:         body.State,
		TransactionID: body.TransactionID,
		Timestamp:     ts,
	})
	return nil
}

func parseOnChainEvent(b *batch.Batch, ev *shardrpc.OnChainEventWire) error {
	addr, err := hex.DecodeString(trimHexPrefix(ev.BlockHash))
	if err != nil {
		return fmt.Errorf("decode block hash: %w", err)
	}
	txHash, err := hex.DecodeString(trimHexPrefix(ev.TxHash))
	if err != nil {
		return fmt.Errorf("decode tx hash: %w", err)
	}

	b.OnChainEvents = append(b.OnChainEvents, types.OnChainEvent{
		FID:            ev.FID,
		EventType:      types.OnChainEventType(ev.EventType),
		ChainID:        ev.ChainID,
		BlockNumber:    ev.BlockNumber,
		BlockHash:      addr,
		BlockTimestamp: time.Unix(ev.BlockTimestamp, 0).UTC(),
		TxHash:         txHash,
		LogIndex:       ev.LogIndex,
		EventData:      []byte(ev.EventData),
	})
	b.EnsureFID(ev.FID)
	return nil
}

func parseFnameTransfer(b *batch.Batch, ft *shardrpc.FnameTransferWire) error {
	b.UsernameProofs = append(b.UsernameProofs, types.UsernameProof{
		FID:          ft.FID,
		UsernameType: ft.UsernameType,
		Username:     ft.Username,
		OwnerAddress: []byte(ft.OwnerAddress),
		Signature:    []byte(ft.Signature),
		Timestamp:    time.Unix(ft.Timestamp, 0).UTC(),
	})
	b.EnsureFID(ft.FID)
	return nil
}
