package parser

import "encoding/json"

// The following structs decode MessageData.Body for each message type
// pkg/parser understands. They are wire DTOs, not domain types —
// pkg/types holds the normalized shapes these get converted into.

type castAddBody struct {
	Text       string          `json:"text"`
	ParentHash *string         `json:"parent_hash,omitempty"`
	RootHash   *string         `json:"root_hash,omitempty"`
	Embeds     json.RawMessage `json:"embeds,omitempty"`
	Mentions   json.RawMessage `json:"mentions,omitempty"`
}

type castRemoveBody struct {
	TargetHash string `json:"target_hash"`
}

type reactionBody struct {
	ReactionType   int16   `json:"reaction_type"`
	TargetCastHash *string `json:"target_cast_hash,omitempty"`
	TargetFID      *uint64 `json:"target_fid,omitempty"`
	TargetURL      *string `json:"target_url,omitempty"`
}

type linkBody struct {
	LinkType  string `json:"link_type"`
	TargetFID uint64 `json:"target_fid"`
}

type verificationBody struct {
	Address          string `json:"address"`
	Protocol         string `json:"protocol"` // "ethereum" or "solana"
	ChainID          uint32 `json:"chain_id"`
}

type userDataAddBody struct {
	Type  int32  `json:"type"`
	Value string `json:"value"`
}

type usernameProofBody struct {
	UsernameType int16  `json:"username_type"`
	Username     string `json:"username"`
	OwnerAddress string `json:"owner_address"`
	Signature    string `json:"signature"`
}

type frameActionBody struct {
	URL           string  `json:"url"`
	ButtonIndex   *int32  `json:"button_index,omitempty"`
	CastHash      *string `json:"cast_hash,omitempty"`
	CastFID       *uint64 `json:"cast_fid,omitempty"`
	InputText     *string `json:"input_text,omitempty"`
	State         []byte  `json:"state,omitempty"`
	TransactionID *string `json:"transaction_id,omitempty"`
}
