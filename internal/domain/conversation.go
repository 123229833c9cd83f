package domain

import (
	"fmt"
	"time"
)

// ConversationKind discriminates the three destination variants
type ConversationKind string

const (
	KindPrivate ConversationKind = "private"
	KindGroup   ConversationKind = "group"
	KindChannel ConversationKind = "channel"
)

// Destination addresses exactly one conversation: a private peer, a
// group, or a channel. Exactly one field must be set.
type Destination struct {
	ReceiverID *uint64 `json:"receiver_id,omitempty"`
	GroupID    *uint64 `json:"group_id,omitempty"`
	ChannelID  *uint64 `json:"channel_id,omitempty"`
}

// Kind returns the destination variant, or an error when the
// exactly-one invariant is violated.
func (d Destination) Kind() (ConversationKind, error) {
	set := 0
	var kind ConversationKind
	if d.ReceiverID != nil {
		set++
		kind = KindPrivate
	}
	if d.GroupID != nil {
		set++
		kind = KindGroup
	}
	if d.ChannelID != nil {
		set++
		kind = KindChannel
	}
	if set != 1 {
		return "", fmt.Errorf("destination must set exactly one of receiver_id, group_id, channel_id (got %d)", set)
	}
	return kind, nil
}

// Key returns the conversation key for this destination as seen by
// senderID. Private pairs are unordered, so both parties derive the
// same key.
func (d Destination) Key(senderID uint64) string {
	switch {
	case d.ReceiverID != nil:
		return PrivateKey(senderID, *d.ReceiverID)
	case d.GroupID != nil:
		return GroupKey(*d.GroupID)
	case d.ChannelID != nil:
		return ChannelKey(*d.ChannelID)
	}
	return ""
}

// PrivateKey builds the unordered-pair conversation key
func PrivateKey(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("p:%d:%d", a, b)
}

// GroupKey builds a group conversation key
func GroupKey(id uint64) string { return fmt.Sprintf("g:%d", id) }

// ChannelKey builds a channel conversation key
func ChannelKey(id uint64) string { return fmt.Sprintf("c:%d", id) }

// GroupRole is a member's role within a group
type GroupRole string

const (
	GroupRoleMember GroupRole = "member"
	GroupRoleAdmin  GroupRole = "admin"
)

// ChannelRole is a subscriber's role within a channel
type ChannelRole string

const (
	ChannelRoleSubscriber ChannelRole = "subscriber"
	ChannelRolePublisher  ChannelRole = "publisher"
	ChannelRoleAdmin      ChannelRole = "admin"
)

// Group is a bounded-membership conversation
type Group struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title      string     `gorm:"column:title;size:255" json:"title"`
	CreatorID  uint64     `gorm:"column:creator_id;index" json:"creator_id"`
	MaxMembers int        `gorm:"column:max_members" json:"max_members"`
	IsDeleted  bool       `gorm:"column:is_deleted;default:false" json:"-"`
	DeletedAt  *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Group) TableName() string { return "chat_groups" }

// GroupMember is one row of a group's membership list
type GroupMember struct {
	GroupID  uint64    `gorm:"column:group_id;primaryKey" json:"group_id"`
	UserID   uint64    `gorm:"column:user_id;primaryKey;index" json:"user_id"`
	Role     GroupRole `gorm:"column:role;size:16;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (GroupMember) TableName() string { return "chat_group_members" }

// Channel is a broadcast-oriented conversation with unbounded
// subscribers. Soft-deleted channels are hidden from all reads.
type Channel struct {
	ID                uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title             string     `gorm:"column:title;size:255" json:"title"`
	CreatorID         uint64     `gorm:"column:creator_id;index" json:"creator_id"`
	OnlyAdminsCanPost bool       `gorm:"column:only_admins_can_post;default:false" json:"only_admins_can_post"`
	IsDeleted         bool       `gorm:"column:is_deleted;default:false" json:"-"`
	DeletedAt         *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Channel) TableName() string { return "channels" }

// ChannelSubscriber is one row of a channel's subscriber list
type ChannelSubscriber struct {
	ChannelID uint64      `gorm:"column:channel_id;primaryKey" json:"channel_id"`
	UserID    uint64      `gorm:"column:user_id;primaryKey;index" json:"user_id"`
	Role      ChannelRole `gorm:"column:role;size:16;default:'subscriber'" json:"role"`
	JoinedAt  time.Time   `gorm:"column:joined_at;autoCreateTime" json:"joined_at"`
}

func (ChannelSubscriber) TableName() string { return "channel_subscribers" }
