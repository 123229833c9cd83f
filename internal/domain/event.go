package domain

import "time"

// Push event types. Clients apply events by message id, idempotently:
// seeing the same edit/delete/reaction event twice must leave local
// state unchanged.
const (
	EventMessageNew     = "message.new"
	EventMessageEdited  = "message.edited"
	EventMessageDeleted = "message.deleted"
	EventReaction       = "reaction"
	EventRead           = "read"
)

// MessageNewPayload carries a freshly persisted message
type MessageNewPayload struct {
	Conversation string           `json:"conversation"`
	Message      *MessageResponse `json:"message"`
}

// MessageEditedPayload is the minimal delta for an edit
type MessageEditedPayload struct {
	Conversation string    `json:"conversation"`
	MessageID    uint64    `json:"message_id"`
	Content      string    `json:"content"`
	EditedAt     time.Time `json:"edited_at"`
}

// MessageDeletedPayload tombstones a message client-side
type MessageDeletedPayload struct {
	Conversation string `json:"conversation"`
	MessageID    uint64 `json:"message_id"`
}

// ReactionPayload is a reaction delta, not a message resend
type ReactionPayload struct {
	Conversation string `json:"conversation"`
	MessageID    uint64 `json:"message_id"`
	Emoji        string `json:"emoji"`
	Count        int64  `json:"count"`
	UserID       uint64 `json:"user_id"`
	Removed      bool   `json:"removed,omitempty"`
}

// ReadPayload reports a watermark advance. Private conversations name
// the reader; groups and channels report an aggregated reader count to
// bound fan-out.
type ReadPayload struct {
	Conversation  string `json:"conversation"`
	UpToMessageID uint64 `json:"up_to_message_id"`
	ReaderID      uint64 `json:"reader_id,omitempty"`
	ReaderCount   int64  `json:"reader_count,omitempty"`
}
