package shardrpc

import "encoding/json"

// MessageData is the type-tagged body of a user message, field-for-
// field matching spec.md §6's wire schema. Body is left as raw JSON and
// dispatched by pkg/parser per the message's Type tag; this package
// never interprets Body itself.
type MessageData struct {
	Type      int32           `json:"type"`
	FID       uint64          `json:"fid"`
	Timestamp int64           `json:"timestamp"`
	Body      json.RawMessage `json:"body"`
}

// UserMessage is one signed message submitted by a user.
type UserMessage struct {
	Hash string      `json:"hash"`
	Data MessageData `json:"data"`
}

// OnChainEventWire is the on-chain-event variant of a system message.
type OnChainEventWire struct {
	FID            uint64          `json:"fid"`
	EventType      string          `json:"event_type"`
	ChainID        uint32          `json:"chain_id"`
	BlockNumber    uint64          `json:"block_number"`
	BlockHash      string          `json:"block_hash"`
	BlockTimestamp int64           `json:"block_timestamp"`
	TxHash         string          `json:"tx_hash"`
	LogIndex       *int32          `json:"log_index,omitempty"`
	EventData      json.RawMessage `json:"event_data,omitempty"`
}

// FnameTransferWire is the username-proof variant of a system message.
type FnameTransferWire struct {
	FID          uint64 `json:"fid"`
	UsernameType int16  `json:"username_type"`
	Username     string `json:"username"`
	OwnerAddress string `json:"owner_address"`
	Signature    string `json:"signature"`
	Timestamp    int64  `json:"timestamp"`
}

// SystemMessage carries exactly one of OnChainEvent or FnameTransfer.
type SystemMessage struct {
	OnChainEvent   *OnChainEventWire  `json:"on_chain_event,omitempty"`
	FnameTransfer  *FnameTransferWire `json:"fname_transfer,omitempty"`
}

// Transaction is one shard transaction: a user FID and the messages it
// submitted in this block.
type Transaction struct {
	FID            uint64          `json:"fid"`
	UserMessages   []UserMessage   `json:"user_messages"`
	SystemMessages []SystemMessage `json:"system_messages"`
}

// BlockHeader carries the block number and timestamp for a chunk.
type BlockHeader struct {
	BlockNumber uint64 `json:"block_number"`
	Timestamp   int64  `json:"timestamp"`
}

// ShardChunk is one unit of the Node RPC stream: a block's transactions
// for a single shard, matching spec.md §6's GetBlocks response shape.
type ShardChunk struct {
	Header       BlockHeader   `json:"header"`
	Transactions []Transaction `json:"transactions"`
}
