package types

import "time"

// MessageType is the Snapchain message-type tag carried on every
// user-originated message in a shard chunk.
type MessageType int32

const (
	MessageTypeCastAdd          MessageType = 1
	MessageTypeCastRemove       MessageType = 2
	MessageTypeReactionAdd      MessageType = 3
	MessageTypeReactionRemove   MessageType = 4
	MessageTypeLinkAdd          MessageType = 5
	MessageTypeLinkRemove       MessageType = 6
	MessageTypeVerificationAdd  MessageType = 7
	MessageTypeVerificationRem  MessageType = 8
	MessageTypeUserDataAdd      MessageType = 11
	MessageTypeUsernameProof    MessageType = 12
	MessageTypeFrameAction      MessageType = 13
	MessageTypeLinkCompactState MessageType = 14
	MessageTypeLendStorage      MessageType = 15
)

// EventType distinguishes an append ("add") row from a soft-delete
// ("remove") row in the append-only Link/Reaction/Verification tables.
type EventType string

const (
	EventTypeAdd    EventType = "add"
	EventTypeRemove EventType = "remove"
)

// UserDataFieldFor maps a UserDataAdd sub-type integer to its canonical
// profile field name, per the fixed table in the message router spec.
// Unknown sub-types return ("", false) and are dropped at debug level.
func UserDataFieldFor(subType int32) (string, bool) {
	field, ok := userDataFields[subType]
	return field, ok
}

var userDataFields = map[int32]string{
	1:  "pfp_url",
	2:  "display_name",
	3:  "bio",
	5:  "website_url",
	6:  "username",
	7:  "location",
	8:  "twitter_username",
	9:  "github_username",
	10: "banner_url",
	11: "primary_address_ethereum",
	12: "primary_address_solana",
	13: "profile_token",
}

// Cast is a post: the root unit of Farcaster social content.
type Cast struct {
	MessageHash string
	FID         uint64
	Text        string
	Timestamp   time.Time
	ParentHash  *string
	RootHash    *string
	Embeds      []byte // opaque structured blob, preserved as-is
	Mentions    []byte // opaque structured blob, preserved as-is
}

// Link is a follow-type relation between two FIDs. Unfollow is
// represented as a new row with EventType=remove, never a mutation.
type Link struct {
	MessageHash string
	FID         uint64
	TargetFID   uint64
	LinkType    string
	EventType   EventType
	Timestamp   time.Time
	RemovedAt   *time.Time
}

// ReactionType distinguishes a like from a recast.
type ReactionType int16

const (
	ReactionTypeLike   ReactionType = 1
	ReactionTypeRecast ReactionType = 2
)

// Reaction targets either a cast or a URL. When it targets a URL,
// TargetCastHash holds a synthetic "url_<url>" digest and TargetFID is nil.
type Reaction struct {
	MessageHash    string
	FID            uint64
	TargetCastHash string
	TargetFID      *uint64
	ReactionType   ReactionType
	EventType      EventType
	Timestamp      time.Time
	RemovedAt      *time.Time
}

// VerificationType distinguishes the two supported chain families.
type VerificationType int16

const (
	VerificationTypeEthereum VerificationType = 1
	VerificationTypeSolana   VerificationType = 2
)

// SolanaChainID is the fixed chain_id recorded for Solana verifications.
const SolanaChainID = 900

// Verification binds an FID to an on-chain address.
type Verification struct {
	MessageHash      string
	FID              uint64
	Address          []byte // 20-byte ETH address or raw Solana base58 bytes
	VerificationType VerificationType
	ChainID          uint32
	Timestamp        time.Time
	RemovedAt        *time.Time
}

// UsernameProof is an upsert keyed on (FID, UsernameType).
type UsernameProof struct {
	FID          uint64
	UsernameType int16
	Username     string
	OwnerAddress []byte
	Signature    []byte
	Timestamp    time.Time
}

// OnChainEventType enumerates the historical on-chain event kinds.
type OnChainEventType string

const (
	OnChainEventIDRegister   OnChainEventType = "id_register"
	OnChainEventStorageRent  OnChainEventType = "storage_rent"
	OnChainEventSigner       OnChainEventType = "signer"
	OnChainEventTierPurchase OnChainEventType = "tier_purchase"
)

// OnChainEvent is a historical record of an on-chain occurrence;
// id_register legitimizes an FID.
type OnChainEvent struct {
	FID            uint64
	EventType      OnChainEventType
	ChainID        uint32
	BlockNumber    uint64
	BlockHash      []byte
	BlockTimestamp time.Time
	TxHash         []byte
	LogIndex       *int32
	EventData      []byte // JSON
}

// FrameAction is an append-only record of a user interacting with a frame.
type FrameAction struct {
	MessageHash   string
	FID           uint64
	URL           string
	ButtonIndex   *int32
	CastHash      *string
	CastFID       *uint64
	InputText     *string
	State         []byte
	TransactionID *string
	Timestamp     time.Time
}

// CastEmbedding is the one-to-one vector-search projection of a Cast
// whose text is non-empty. Embedding dimension D is fixed at schema
// creation time (see pkg/storage's Migrate).
type CastEmbedding struct {
	MessageHash string
	FID         uint64
	Text        string
	Embedding   []float32
	UpdatedAt   time.Time
}

// SyncStatus is the durable per-shard sync state exposed via
// SyncProgress and the lifecycle status subcommand.
type SyncStatus string

const (
	SyncStatusIdle     SyncStatus = "idle"
	SyncStatusSyncing  SyncStatus = "syncing"
	SyncStatusError    SyncStatus = "error"
	SyncStatusDone     SyncStatus = "done"
)

// SyncProgress is the durable high-water mark and status for one shard.
type SyncProgress struct {
	ShardID             uint32
	LastProcessedHeight uint64
	Status              SyncStatus
	ErrorMessage        *string
	UpdatedAt           time.Time
}

// ProfileField is one event-sourced profile field-change event. The
// projection over all ProfileField rows for an FID — latest Timestamp
// per FieldName wins, ties broken by MessageHash — yields the current
// profile (see pkg/storage's projection query).
type ProfileField struct {
	FID         uint64
	FieldName   string
	FieldValue  string
	Timestamp   time.Time
	MessageHash string
}

// Profile is the projected, current view of a user's profile fields —
// never stored directly, always computed from ProfileField rows.
type Profile struct {
	FID             uint64
	PfpURL          string
	DisplayName     string
	Bio             string
	WebsiteURL      string
	Username        string
	Location        string
	TwitterUsername string
	GithubUsername  string
	BannerURL       string
}
