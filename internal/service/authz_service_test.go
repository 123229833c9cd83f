package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
)

func newTestAuthz(userRepo *MockUserRepository, groupRepo *MockGroupRepository, channelRepo *MockChannelRepository) AuthzService {
	return NewAuthzService(userRepo, groupRepo, channelRepo, 5*time.Minute)
}

func TestCheckSend_PrivateBothActive(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("IsActive", uint64(1)).Return(true, nil)
	userRepo.On("IsActive", uint64(2)).Return(true, nil)

	authz := newTestAuthz(userRepo, new(MockGroupRepository), new(MockChannelRepository))

	err := authz.CheckSend(1, domain.Destination{ReceiverID: uintPtr(2)})

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestCheckSend_PrivateReceiverDeactivated(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("IsActive", uint64(1)).Return(true, nil)
	userRepo.On("IsActive", uint64(2)).Return(false, nil)

	authz := newTestAuthz(userRepo, new(MockGroupRepository), new(MockChannelRepository))

	err := authz.CheckSend(1, domain.Destination{ReceiverID: uintPtr(2)})

	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCheckSend_GroupNonMemberDenied(t *testing.T) {
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 256}, nil)
	groupRepo.On("IsMember", uint64(7), uint64(3)).Return(false, nil)

	authz := newTestAuthz(new(MockUserRepository), groupRepo, new(MockChannelRepository))

	err := authz.CheckSend(3, domain.Destination{GroupID: uintPtr(7)})

	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestCheckSend_GroupMemberAllowed(t *testing.T) {
	groupRepo := new(MockGroupRepository)
	groupRepo.On("FindByID", uint64(7)).Return(&domain.Group{ID: 7, MaxMembers: 256}, nil)
	groupRepo.On("IsMember", uint64(7), uint64(3)).Return(true, nil)

	authz := newTestAuthz(new(MockUserRepository), groupRepo, new(MockChannelRepository))

	assert.NoError(t, authz.CheckSend(3, domain.Destination{GroupID: uintPtr(7)}))
}

func TestCheckSend_RestrictedChannelSubscriberDenied(t *testing.T) {
	channelRepo := new(MockChannelRepository)
	channelRepo.On("FindByID", uint64(9)).Return(&domain.Channel{ID: 9, OnlyAdminsCanPost: true}, nil)
	channelRepo.On("RoleOf", uint64(9), uint64(4)).Return(domain.ChannelRoleSubscriber, nil)

	authz := newTestAuthz(new(MockUserRepository), new(MockGroupRepository), channelRepo)

	err := authz.CheckSend(4, domain.Destination{ChannelID: uintPtr(9)})

	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestCheckSend_RestrictedChannelPublisherAllowed(t *testing.T) {
	channelRepo := new(MockChannelRepository)
	channelRepo.On("FindByID", uint64(9)).Return(&domain.Channel{ID: 9, OnlyAdminsCanPost: true}, nil)
	channelRepo.On("RoleOf", uint64(9), uint64(4)).Return(domain.ChannelRolePublisher, nil)

	authz := newTestAuthz(new(MockUserRepository), new(MockGroupRepository), channelRepo)

	assert.NoError(t, authz.CheckSend(4, domain.Destination{ChannelID: uintPtr(9)}))
}

func TestCheckSend_ChannelNonSubscriberDenied(t *testing.T) {
	channelRepo := new(MockChannelRepository)
	channelRepo.On("FindByID", uint64(9)).Return(&domain.Channel{ID: 9}, nil)
	channelRepo.On("RoleOf", uint64(9), uint64(4)).Return(domain.ChannelRole(""), common.ErrNotSubscriber)

	authz := newTestAuthz(new(MockUserRepository), new(MockGroupRepository), channelRepo)

	err := authz.CheckSend(4, domain.Destination{ChannelID: uintPtr(9)})

	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestCheckRead_GroupNonMemberDenied(t *testing.T) {
	groupRepo := new(MockGroupRepository)
	groupRepo.On("IsMember", uint64(7), uint64(5)).Return(false, nil)

	authz := newTestAuthz(new(MockUserRepository), groupRepo, new(MockChannelRepository))

	err := authz.CheckRead(5, domain.Destination{GroupID: uintPtr(7)})

	assert.ErrorIs(t, err, common.ErrPermission)
}

func TestCheckReadMessage_PrivateOutsiderDenied(t *testing.T) {
	authz := newTestAuthz(new(MockUserRepository), new(MockGroupRepository), new(MockChannelRepository))

	msg := &domain.Message{ID: 10, SenderID: 1, ReceiverID: uintPtr(2)}

	assert.NoError(t, authz.CheckReadMessage(1, msg))
	assert.NoError(t, authz.CheckReadMessage(2, msg))
	assert.ErrorIs(t, authz.CheckReadMessage(3, msg), common.ErrPermission)
}

func TestCheckMutate_SenderWithinWindow(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1}, nil)

	authz := newTestAuthz(userRepo, new(MockGroupRepository), new(MockChannelRepository))

	msg := &domain.Message{ID: 10, SenderID: 1, ReceiverID: uintPtr(2), CreatedAt: time.Now().Add(-time.Minute)}

	assert.NoError(t, authz.CheckMutate(1, msg))
}

func TestCheckMutate_SenderAfterWindow(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1}, nil)

	authz := newTestAuthz(userRepo, new(MockGroupRepository), new(MockChannelRepository))

	msg := &domain.Message{ID: 10, SenderID: 1, ReceiverID: uintPtr(2), CreatedAt: time.Now().Add(-time.Hour)}

	assert.ErrorIs(t, authz.CheckMutate(1, msg), common.ErrEditWindowExpired)
}

func TestCheckMutate_GroupAdminIgnoresWindow(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(5)).Return(&domain.User{ID: 5}, nil)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("RoleOf", uint64(7), uint64(5)).Return(domain.GroupRoleAdmin, nil)

	authz := newTestAuthz(userRepo, groupRepo, new(MockChannelRepository))

	msg := &domain.Message{ID: 10, SenderID: 1, GroupID: uintPtr(7), CreatedAt: time.Now().Add(-time.Hour)}

	assert.NoError(t, authz.CheckMutate(5, msg))
}

func TestCheckMutate_PlatformAdminAlwaysAllowed(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(99)).Return(&domain.User{ID: 99, IsAdmin: true}, nil)

	authz := newTestAuthz(userRepo, new(MockGroupRepository), new(MockChannelRepository))

	msg := &domain.Message{ID: 10, SenderID: 1, ReceiverID: uintPtr(2), CreatedAt: time.Now().Add(-time.Hour)}

	assert.NoError(t, authz.CheckMutate(99, msg))
}

func TestCheckMutate_OtherMemberDenied(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(2)).Return(&domain.User{ID: 2}, nil)
	groupRepo := new(MockGroupRepository)
	groupRepo.On("RoleOf", uint64(7), uint64(2)).Return(domain.GroupRoleMember, nil)

	authz := newTestAuthz(userRepo, groupRepo, new(MockChannelRepository))

	msg := &domain.Message{ID: 10, SenderID: 1, GroupID: uintPtr(7), CreatedAt: time.Now()}

	assert.ErrorIs(t, authz.CheckMutate(2, msg), common.ErrPermission)
}
