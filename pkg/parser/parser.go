// Package parser turns a raw shard chunk into a batch.Batch: pure
// decode-and-route, no I/O and no storage access.
package parser

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/snaprag/snaprag/pkg/batch"
	"github.com/snaprag/snaprag/pkg/log"
	"github.com/snaprag/snaprag/pkg/shardrpc"
)

// ParseChunk decodes every message in chunk and routes it onto the
// matching slice in a fresh batch.Batch. A malformed inner body never
// fails the whole chunk: the offending message is logged and skipped,
// and decoding continues with the next one, per the message router's
// fault-isolation rule.
func ParseChunk(chunk *shardrpc.ShardChunk, shardID uint32) (*batch.Batch, error) {
	if chunk == nil {
		return nil, fmt.Errorf("parse chunk: nil chunk")
	}

	b := batch.New()
	shardLog := log.WithShard(shardID)

	for _, tx := range chunk.Transactions {
		b.EnsureFID(tx.FID)

		for _, msg := range tx.UserMessages {
			if err := routeUserMessage(b, msg, shardLog); err != nil {
				shardLog.Warn().Err(err).Str("message_hash", msg.Hash).Msg("dropping malformed message")
			}
		}

		for _, sys := range tx.SystemMessages {
			routeSystemMessage(b, sys, shardLog)
		}
	}

	return b, nil
}

func routeUserMessage(b *batch.Batch, msg shardrpc.UserMessage, shardLog zerolog.Logger) error {
	ts := time.Unix(msg.Data.Timestamp, 0).UTC()

	switch msg.Data.Type {
	case 1:
		return parseCastAdd(b, msg, ts)
	case 2:
		return parseCastRemove(b, msg, ts)
	case 3:
		return parseReaction(b, msg, ts, false)
	case 4:
		return parseReaction(b, msg, ts, true)
	case 5:
		return parseLink(b, msg, ts, false)
	case 6:
		return parseLink(b, msg, ts, true)
	case 7:
		return parseVerification(b, msg, ts, false)
	case 8:
		return parseVerification(b, msg, ts, true)
	case 11:
		return parseUserDataAdd(b, msg, ts)
	case 12:
		return parseUsernameProof(b, msg, ts)
	case 13:
		return parseFrameAction(b, msg, ts)
	case 14, 15:
		shardLog.Debug().Int32("message_type", msg.Data.Type).Str("message_hash", msg.Hash).
			Msg("message type has no storage destination, dropping")
		return nil
	default:
		shardLog.Debug().Int32("message_type", msg.Data.Type).Str("message_hash", msg.Hash).
			Msg("unrecognized message type, dropping")
		return nil
	}
}

func routeSystemMessage(b *batch.Batch, sys shardrpc.SystemMessage, shardLog zerolog.Logger) {
	switch {
	case sys.OnChainEvent != nil:
		if err := parseOnChainEvent(b, sys.OnChainEvent); err != nil {
			shardLog.Warn().Err(err).Msg("dropping malformed on-chain event")
		}
	case sys.FnameTransfer != nil:
		if err := parseFnameTransfer(b, sys.FnameTransfer); err != nil {
			shardLog.Warn().Err(err).Msg("dropping malformed fname transfer")
		}
	default:
		shardLog.Debug().Msg("empty system message, dropping")
	}
}
