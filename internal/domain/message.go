package domain

import "time"

// Message is one chat message. Exactly one of ReceiverID, GroupID,
// ChannelID is set (enforced in Validate and by the repository).
// Messages are never physically removed; deletion tombstones the row.
type Message struct {
	ID            uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SenderID      uint64     `gorm:"column:sender_id;index" json:"sender_id"`
	ReceiverID    *uint64    `gorm:"column:receiver_id;index" json:"receiver_id,omitempty"`
	GroupID       *uint64    `gorm:"column:group_id;index" json:"group_id,omitempty"`
	ChannelID     *uint64    `gorm:"column:channel_id;index" json:"channel_id,omitempty"`
	Content       string     `gorm:"column:content;type:text" json:"content"`
	AttachmentID  *uint64    `gorm:"column:attachment_id;uniqueIndex" json:"attachment_id,omitempty"`
	ReplyToID     *uint64    `gorm:"column:reply_to_id" json:"reply_to_id,omitempty"`
	ForwardFromID *uint64    `gorm:"column:forward_from_id" json:"forward_from_id,omitempty"`
	Flagged       bool       `gorm:"column:flagged;default:false" json:"-"`
	IsEdited      bool       `gorm:"column:is_edited;default:false" json:"is_edited"`
	EditedAt      *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`
	IsDeleted     bool       `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	DeletedAt     *time.Time `gorm:"column:deleted_at" json:"-"`
	Version       uint32     `gorm:"column:version;default:1" json:"-"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

// Destination returns the message's destination descriptor
func (m *Message) Destination() Destination {
	return Destination{
		ReceiverID: m.ReceiverID,
		GroupID:    m.GroupID,
		ChannelID:  m.ChannelID,
	}
}

// ConversationKey returns the key of the conversation this message
// belongs to.
func (m *Message) ConversationKey() string {
	return m.Destination().Key(m.SenderID)
}

// SameConversation reports whether other lives in the same
// conversation as m. Used to validate reply references.
func (m *Message) SameConversation(other *Message) bool {
	return m.ConversationKey() == other.ConversationKey()
}

// MessageResponse is the wire shape of a message
type MessageResponse struct {
	ID            uint64     `json:"id"`
	SenderID      uint64     `json:"sender_id"`
	ReceiverID    *uint64    `json:"receiver_id,omitempty"`
	GroupID       *uint64    `json:"group_id,omitempty"`
	ChannelID     *uint64    `json:"channel_id,omitempty"`
	Content       string     `json:"content"`
	AttachmentID  *uint64    `json:"attachment_id,omitempty"`
	ReplyToID     *uint64    `json:"reply_to_id,omitempty"`
	ForwardFromID *uint64    `json:"forward_from_id,omitempty"`
	IsEdited      bool       `json:"is_edited"`
	EditedAt      *time.Time `json:"edited_at,omitempty"`
	IsDeleted     bool       `json:"is_deleted"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToResponse converts a Message to its wire shape. Tombstoned
// messages keep their id but drop content so clients can render a
// consistent placeholder.
func (m *Message) ToResponse() *MessageResponse {
	resp := &MessageResponse{
		ID:            m.ID,
		SenderID:      m.SenderID,
		ReceiverID:    m.ReceiverID,
		GroupID:       m.GroupID,
		ChannelID:     m.ChannelID,
		Content:       m.Content,
		AttachmentID:  m.AttachmentID,
		ReplyToID:     m.ReplyToID,
		ForwardFromID: m.ForwardFromID,
		IsEdited:      m.IsEdited,
		EditedAt:      m.EditedAt,
		IsDeleted:     m.IsDeleted,
		CreatedAt:     m.CreatedAt,
	}
	if m.IsDeleted {
		resp.Content = ""
		resp.AttachmentID = nil
	}
	return resp
}
