package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
)

type conversationFixture struct {
	messageRepo *MockMessageRepository
	receiptRepo *MockReceiptRepository
	groupRepo   *MockGroupRepository
	channelRepo *MockChannelRepository
	userRepo    *MockUserRepository
	svc         ConversationService
}

func newConversationFixture() *conversationFixture {
	f := &conversationFixture{
		messageRepo: new(MockMessageRepository),
		receiptRepo: new(MockReceiptRepository),
		groupRepo:   new(MockGroupRepository),
		channelRepo: new(MockChannelRepository),
		userRepo:    new(MockUserRepository),
	}
	authz := NewAuthzService(f.userRepo, f.groupRepo, f.channelRepo, 5*time.Minute)
	f.svc = NewConversationService(f.messageRepo, f.receiptRepo, f.groupRepo, f.channelRepo, authz)
	return f
}

func TestHistory_ReturnsPage(t *testing.T) {
	f := newConversationFixture()
	f.userRepo.On("IsActive", uint64(2)).Return(true, nil)
	f.messageRepo.On("FindConversation", mock.Anything, uint64(2), uint64(0), 50).
		Return([]*domain.Message{
			privateMessage(12, 1, 2),
			privateMessage(11, 2, 1),
		}, nil)

	page, err := f.svc.History(2, domain.Destination{ReceiverID: uintPtr(1)}, 0, 50)

	assert.NoError(t, err)
	assert.Len(t, page, 2)
	assert.Equal(t, uint64(12), page[0].ID)
}

func TestHistory_NonMemberDenied(t *testing.T) {
	f := newConversationFixture()
	f.groupRepo.On("IsMember", uint64(7), uint64(5)).Return(false, nil)

	_, err := f.svc.History(5, domain.Destination{GroupID: uintPtr(7)}, 0, 50)

	assert.ErrorIs(t, err, common.ErrPermission)
	f.messageRepo.AssertNotCalled(t, "FindConversation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUnreadCounts_SkipsFullyReadConversations(t *testing.T) {
	f := newConversationFixture()
	f.messageRepo.On("PrivatePeers", uint64(2)).Return([]uint64{1}, nil)
	f.groupRepo.On("GroupsOf", uint64(2)).Return([]uint64{7}, nil)
	f.channelRepo.On("ChannelsOf", uint64(2)).Return([]uint64{}, nil)

	f.receiptRepo.On("Marker", "p:1:2", uint64(2)).Return(uint64(10), nil)
	f.messageRepo.On("CountUnread", mock.Anything, uint64(2), uint64(10)).Return(int64(3), nil)

	f.receiptRepo.On("Marker", "g:7", uint64(2)).Return(uint64(20), nil)
	f.messageRepo.On("CountUnread", mock.Anything, uint64(2), uint64(20)).Return(int64(0), nil)

	counts, err := f.svc.UnreadCounts(2)

	assert.NoError(t, err)
	assert.Len(t, counts, 1)
	assert.Equal(t, "p:1:2", counts[0].Conversation)
	assert.Equal(t, int64(3), counts[0].Count)
}
