package domain

import "time"

// Reaction is a (message, user, emoji) triple. The unique index makes
// duplicate adds idempotent at the storage layer.
type Reaction struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MessageID uint64    `gorm:"column:message_id;uniqueIndex:uq_reaction,priority:1" json:"message_id"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex:uq_reaction,priority:2" json:"user_id"`
	Emoji     string    `gorm:"column:emoji;size:32;uniqueIndex:uq_reaction,priority:3" json:"emoji"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Reaction) TableName() string { return "reactions" }

// ReadReceipt records the first time a user read a message
type ReadReceipt struct {
	MessageID uint64    `gorm:"column:message_id;primaryKey" json:"message_id"`
	UserID    uint64    `gorm:"column:user_id;primaryKey" json:"user_id"`
	ReadAt    time.Time `gorm:"column:read_at;autoCreateTime" json:"read_at"`
}

func (ReadReceipt) TableName() string { return "read_receipts" }

// ReadMarker is the per-(conversation, user) read watermark. It only
// ever advances.
type ReadMarker struct {
	ConversationKey   string    `gorm:"column:conversation_key;size:64;primaryKey" json:"conversation_key"`
	UserID            uint64    `gorm:"column:user_id;primaryKey" json:"user_id"`
	LastReadMessageID uint64    `gorm:"column:last_read_message_id;default:0" json:"last_read_message_id"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ReadMarker) TableName() string { return "read_markers" }
