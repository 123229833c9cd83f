package service

import (
	"github.com/stretchr/testify/mock"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/ws"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *domain.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id uint64) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByPhone(phone string) (*domain.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) IsActive(id uint64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Deactivate(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) DecrementSMSCredit(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockGroupRepository is a mock implementation of GroupRepository
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) Create(group *domain.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockGroupRepository) FindByID(id uint64) (*domain.Group, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) SoftDelete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockGroupRepository) GroupsOf(userID uint64) ([]uint64, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockGroupRepository) IsMember(groupID, userID uint64) (bool, error) {
	args := m.Called(groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) RoleOf(groupID, userID uint64) (domain.GroupRole, error) {
	args := m.Called(groupID, userID)
	return args.Get(0).(domain.GroupRole), args.Error(1)
}

func (m *MockGroupRepository) Members(groupID uint64) ([]uint64, error) {
	args := m.Called(groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockGroupRepository) MemberCount(groupID uint64) (int64, error) {
	args := m.Called(groupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGroupRepository) AddMember(member *domain.GroupMember, maxMembers int) error {
	args := m.Called(member, maxMembers)
	return args.Error(0)
}

func (m *MockGroupRepository) RemoveMember(groupID, userID uint64) error {
	args := m.Called(groupID, userID)
	return args.Error(0)
}

func (m *MockGroupRepository) SetRole(groupID, userID uint64, role domain.GroupRole) error {
	args := m.Called(groupID, userID, role)
	return args.Error(0)
}

// MockChannelRepository is a mock implementation of ChannelRepository
type MockChannelRepository struct {
	mock.Mock
}

func (m *MockChannelRepository) Create(channel *domain.Channel) error {
	args := m.Called(channel)
	return args.Error(0)
}

func (m *MockChannelRepository) FindByID(id uint64) (*domain.Channel, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Channel), args.Error(1)
}

func (m *MockChannelRepository) SetOnlyAdminsCanPost(id uint64, value bool) error {
	args := m.Called(id, value)
	return args.Error(0)
}

func (m *MockChannelRepository) SoftDelete(id uint64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockChannelRepository) ChannelsOf(userID uint64) ([]uint64, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockChannelRepository) IsSubscriber(channelID, userID uint64) (bool, error) {
	args := m.Called(channelID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockChannelRepository) RoleOf(channelID, userID uint64) (domain.ChannelRole, error) {
	args := m.Called(channelID, userID)
	return args.Get(0).(domain.ChannelRole), args.Error(1)
}

func (m *MockChannelRepository) Subscribers(channelID uint64) ([]uint64, error) {
	args := m.Called(channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockChannelRepository) Subscribe(sub *domain.ChannelSubscriber) error {
	args := m.Called(sub)
	return args.Error(0)
}

func (m *MockChannelRepository) Unsubscribe(channelID, userID uint64) error {
	args := m.Called(channelID, userID)
	return args.Error(0)
}

func (m *MockChannelRepository) SetRole(channelID, userID uint64, role domain.ChannelRole) error {
	args := m.Called(channelID, userID, role)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(msg *domain.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByID(id uint64) (*domain.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) FindVisibleByID(id uint64) (*domain.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) EditContent(id uint64, version uint32, content string, flagged bool) (bool, error) {
	args := m.Called(id, version, content, flagged)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageRepository) SoftDelete(id uint64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageRepository) AttachmentInUse(attachmentID uint64) (bool, error) {
	args := m.Called(attachmentID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMessageRepository) FindConversation(dest domain.Destination, viewerID uint64, beforeID uint64, limit int) ([]*domain.Message, error) {
	args := m.Called(dest, viewerID, beforeID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) IDsInRange(dest domain.Destination, viewerID uint64, afterID, upToID uint64) ([]uint64, error) {
	args := m.Called(dest, viewerID, afterID, upToID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockMessageRepository) SendersInRange(dest domain.Destination, viewerID uint64, afterID, upToID uint64) ([]uint64, error) {
	args := m.Called(dest, viewerID, afterID, upToID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockMessageRepository) CountUnread(dest domain.Destination, viewerID uint64, afterID uint64) (int64, error) {
	args := m.Called(dest, viewerID, afterID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) PrivatePeers(userID uint64) ([]uint64, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

// MockAttachmentRepository is a mock implementation of AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Create(att *domain.FileAttachment) error {
	args := m.Called(att)
	return args.Error(0)
}

func (m *MockAttachmentRepository) FindByID(id uint64) (*domain.FileAttachment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileAttachment), args.Error(1)
}

// MockReactionRepository is a mock implementation of ReactionRepository
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Add(reaction *domain.Reaction) (bool, error) {
	args := m.Called(reaction)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) Remove(messageID, userID uint64, emoji string) (bool, error) {
	args := m.Called(messageID, userID, emoji)
	return args.Bool(0), args.Error(1)
}

func (m *MockReactionRepository) Count(messageID uint64, emoji string) (int64, error) {
	args := m.Called(messageID, emoji)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReactionRepository) ForMessage(messageID uint64) ([]*domain.Reaction, error) {
	args := m.Called(messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reaction), args.Error(1)
}

// MockReceiptRepository is a mock implementation of ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) AdvanceMarker(conversationKey string, userID, upTo uint64) (uint64, bool, error) {
	args := m.Called(conversationKey, userID, upTo)
	return args.Get(0).(uint64), args.Bool(1), args.Error(2)
}

func (m *MockReceiptRepository) Marker(conversationKey string, userID uint64) (uint64, error) {
	args := m.Called(conversationKey, userID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockReceiptRepository) RecordReceipts(userID uint64, messageIDs []uint64) error {
	args := m.Called(userID, messageIDs)
	return args.Error(0)
}

func (m *MockReceiptRepository) ReadersAt(conversationKey string, messageID uint64) (int64, error) {
	args := m.Called(conversationKey, messageID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingPusher captures pushed events per user for assertions
type recordingPusher struct {
	pushes []recordedPush
}

type recordedPush struct {
	UserID uint64
	Event  *ws.Event
}

func (p *recordingPusher) SendToUser(userID uint64, event *ws.Event) {
	p.pushes = append(p.pushes, recordedPush{UserID: userID, Event: event})
}

func (p *recordingPusher) pushedTo(userID uint64) []*ws.Event {
	var events []*ws.Event
	for _, push := range p.pushes {
		if push.UserID == userID {
			events = append(events, push.Event)
		}
	}
	return events
}

func uintPtr(v uint64) *uint64 { return &v }
