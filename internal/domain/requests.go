package domain

// SendMessageRequest is the inbound shape for SendMessage
type SendMessageRequest struct {
	Destination
	Content       string  `json:"content"`
	AttachmentID  *uint64 `json:"attachment_id,omitempty"`
	ReplyToID     *uint64 `json:"reply_to_id,omitempty"`
	ForwardFromID *uint64 `json:"forward_from_id,omitempty"`
}

// EditMessageRequest replaces a message's content
type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ReactionRequest adds or removes one emoji
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// MarkReadRequest advances the caller's read watermark
type MarkReadRequest struct {
	Destination
	UpToMessageID uint64 `json:"up_to_message_id" binding:"required"`
}

// CreateGroupRequest creates a group; the creator joins as admin
type CreateGroupRequest struct {
	Title      string `json:"title" binding:"required"`
	MaxMembers int    `json:"max_members"`
}

// AddGroupMemberRequest adds one user to a group
type AddGroupMemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// CreateChannelRequest creates a channel; the creator becomes admin
type CreateChannelRequest struct {
	Title             string `json:"title" binding:"required"`
	OnlyAdminsCanPost bool   `json:"only_admins_can_post"`
}

// GrantChannelRoleRequest sets a subscriber's channel role
type GrantChannelRoleRequest struct {
	UserID uint64      `json:"user_id" binding:"required"`
	Role   ChannelRole `json:"role" binding:"required"`
}

// SetChannelPostingRequest toggles the admins-only posting restriction
type SetChannelPostingRequest struct {
	OnlyAdminsCanPost bool `json:"only_admins_can_post"`
}

// RegisterAttachmentRequest records a file reference produced by the
// external upload service
type RegisterAttachmentRequest struct {
	Hash     string `json:"hash" binding:"required"`
	Size     int64  `json:"size" binding:"required"`
	MimeType string `json:"mime_type"`
	Category string `json:"category"`
	Duration int    `json:"duration"`
}

// RequestCodeRequest asks for an SMS one-time code
type RequestCodeRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// LoginRequest verifies a one-time code
type LoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
