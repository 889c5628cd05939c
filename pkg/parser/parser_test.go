package parser

import (
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snaprag/snaprag/pkg/shardrpc"
	"github.com/snaprag/snaprag/pkg/types"
)

func rawBody(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestParseChunk_CastAddAndRemove(t *testing.T) {
	chunk := &shardrpc.ShardChunk{
		Transactions: []shardrpc.Transaction{
			{
				FID: 42,
				UserMessages: []shardrpc.UserMessage{
					{
						Hash: "0xcast1",
						Data: shardrpc.MessageData{
							Type: 1,
							FID:  42,
							Body: rawBody(t, castAddBody{Text: "gm"}),
						},
					},
					{
						Hash: "0xcast2",
						Data: shardrpc.MessageData{
							Type: 2,
							FID:  42,
							Body: rawBody(t, castRemoveBody{TargetHash: "0xcast0"}),
						},
					},
				},
			},
		},
	}

	b, err := ParseChunk(chunk, 3)
	require.NoError(t, err)
	require.Len(t, b.Casts, 1)
	assert.Equal(t, "gm", b.Casts[0].Text)
	assert.Equal(t, uint64(42), b.Casts[0].FID)
	require.Len(t, b.CastRemoves, 1)
	assert.Equal(t, "0xcast0", b.CastRemoves[0])
	assert.Contains(t, b.FIDsToEnsure, uint64(42))
}

func TestParseChunk_ReactionTargetingURL(t *testing.T) {
	url := "https://example.com/post"
	chunk := &shardrpc.ShardChunk{
		Transactions: []shardrpc.Transaction{
			{
				FID: 7,
				UserMessages: []shardrpc.UserMessage{
					{
						Hash: "0xreact1",
						Data: shardrpc.MessageData{
							Type: 3,
							FID:  7,
							Body: rawBody(t, reactionBody{ReactionType: 1, TargetURL: &url}),
						},
					},
				},
			},
		},
	}

	b, err := ParseChunk(chunk, 1)
	require.NoError(t, err)
	require.Len(t, b.Reactions, 1)
	assert.Equal(t, "url_"+url, b.Reactions[0].TargetCastHash)
	assert.Nil(t, b.Reactions[0].TargetFID)
	assert.Equal(t, types.EventTypeAdd, b.Reactions[0].EventType)
}

func TestParseChunk_VerificationEthereumAndSolana(t *testing.T) {
	solAddr := base58.Encode([]byte{1, 2, 3, 4})

	chunk := &shardrpc.ShardChunk{
		Transactions: []shardrpc.Transaction{
			{
				FID: 9,
				UserMessages: []shardrpc.UserMessage{
					{
						Hash: "0xveth",
						Data: shardrpc.MessageData{
							Type: 7,
							FID:  9,
							Body: rawBody(t, verificationBody{Address: "0xabcd", Protocol: "ethereum", ChainID: 1}),
						},
					},
					{
						Hash: "0xvsol",
						Data: shardrpc.MessageData{
							Type: 7,
							FID:  9,
							Body: rawBody(t, verificationBody{Address: solAddr, Protocol: "solana"}),
						},
					},
				},
			},
		},
	}

	b, err := ParseChunk(chunk, 2)
	require.NoError(t, err)
	require.Len(t, b.Verifications, 2)

	assert.Equal(t, types.VerificationTypeEthereum, b.Verifications[0].VerificationType)
	assert.Equal(t, []byte{0xab, 0xcd}, b.Verifications[0].Address)

	assert.Equal(t, types.VerificationTypeSolana, b.Verifications[1].VerificationType)
	assert.Equal(t, uint32(types.SolanaChainID), b.Verifications[1].ChainID)
	assert.Equal(t, []byte{1, 2, 3, 4}, b.Verifications[1].Address)
}

func TestParseChunk_UserDataAddKnownAndUnknownField(t *testing.T) {
	chunk := &shardrpc.ShardChunk{
		Transactions: []shardrpc.Transaction{
			{
				FID: 5,
				UserMessages: []shardrpc.UserMessage{
					{
						Hash: "0xud1",
						Data: shardrpc.MessageData{
							Type: 11,
							FID:  5,
							Body: rawBody(t, userDataAddBody{Type: 2, Value: "Alice"}),
						},
					},
					{
						Hash: "0xud2",
						Data: shardrpc.MessageData{
							Type: 11,
							FID:  5,
							Body: rawBody(t, userDataAddBody{Type: 99, Value: "unused"}),
						},
					},
				},
			},
		},
	}

	b, err := ParseChunk(chunk, 0)
	require.NoError(t, err)
	require.Len(t, b.ProfileUpdates, 1)
	assert.Equal(t, "display_name", b.ProfileUpdates[0].FieldName)
	assert.Equal(t, "Alice", b.ProfileUpdates[0].FieldValue)
}

func TestParseChunk_NoDestinationMessageTypeDropsWithoutError(t *testing.T) {
	chunk := &shardrpc.ShardChunk{
		Transactions: []shardrpc.Transaction{
			{
				FID: 1,
				UserMessages: []shardrpc.UserMessage{
					{
						Hash: "0xunknown",
						Data: shardrpc.MessageData{Type: 14, FID: 1},
					},
				},
			},
		},
	}

	b, err := ParseChunk(chunk, 0)
	require.NoError(t, err)
	assert.True(t, b.IsEmpty())
}

func TestParseChunk_MalformedBodyDoesNotFailChunk(t *testing.T) {
	chunk := &shardrpc.ShardChunk{
		Transactions: []shardrpc.Transaction{
			{
				FID: 1,
				UserMessages: []shardrpc.UserMessage{
					{
						Hash: "0xbad",
						Data: shardrpc.MessageData{Type: 1, FID: 1, Body: json.RawMessage(`not json`)},
					},
					{
						Hash: "0xgood",
						Data: shardrpc.MessageData{Type: 1, FID: 1, Body: rawBody(t, castAddBody{Text: "ok"})},
					},
				},
			},
		},
	}

	b, err := ParseChunk(chunk, 0)
	require.NoError(t, err)
	require.Len(t, b.Casts, 1)
	assert.Equal(t, "ok", b.Casts[0].Text)
}

func TestParseChunk_OnChainEventSystemMessage(t *testing.T) {
	chunk := &shardrpc.ShardChunk{
		Transactions: []shardrpc.Transaction{
			{
				FID: 3,
				SystemMessages: []shardrpc.SystemMessage{
					{
						OnChainEvent: &shardrpc.OnChainEventWire{
							FID:         3,
							EventType:   "id_register",
							ChainID:     10,
							BlockNumber: 100,
							BlockHash:   "0x00",
							TxHash:      "0x01",
						},
					},
				},
			},
		},
	}

	b, err := ParseChunk(chunk, 0)
	require.NoError(t, err)
	require.Len(t, b.OnChainEvents, 1)
	assert.Equal(t, types.OnChainEventIDRegister, b.OnChainEvents[0].EventType)
	assert.Contains(t, b.FIDsToEnsure, uint64(3))
}
