package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameConversation(t *testing.T) {
	a := &Message{SenderID: 1, ReceiverID: ptr(2)}
	b := &Message{SenderID: 2, ReceiverID: ptr(1)}
	c := &Message{SenderID: 1, ReceiverID: ptr(3)}
	g := &Message{SenderID: 1, GroupID: ptr(7)}

	// Both directions of a private pair are the same conversation.
	assert.True(t, a.SameConversation(b))
	assert.False(t, a.SameConversation(c))
	assert.False(t, a.SameConversation(g))
}

func TestToResponse_TombstoneBlanksContent(t *testing.T) {
	attID := uint64(3)
	deletedAt := time.Now()
	msg := &Message{
		ID: 42, SenderID: 1, ReceiverID: ptr(2),
		Content: "secret", AttachmentID: &attID,
		IsDeleted: true, DeletedAt: &deletedAt,
	}

	resp := msg.ToResponse()

	assert.Equal(t, uint64(42), resp.ID)
	assert.True(t, resp.IsDeleted)
	assert.Empty(t, resp.Content)
	assert.Nil(t, resp.AttachmentID)
}

func TestToResponse_LiveMessage(t *testing.T) {
	msg := &Message{ID: 42, SenderID: 1, ReceiverID: ptr(2), Content: "hello"}

	resp := msg.ToResponse()

	assert.Equal(t, "hello", resp.Content)
	assert.False(t, resp.IsDeleted)
}
