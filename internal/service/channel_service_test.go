package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
)

func TestCreateChannel_RequiresPrivilege(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1}, nil)
	channelRepo := new(MockChannelRepository)

	svc := NewChannelService(channelRepo, userRepo)

	_, err := svc.CreateChannel(1, &domain.CreateChannelRequest{Title: "announcements"})

	assert.ErrorIs(t, err, common.ErrPermission)
	channelRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreateChannel_Privileged(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1, CanCreateChannel: true}, nil)
	channelRepo := new(MockChannelRepository)
	channelRepo.On("Create", mock.AnythingOfType("*domain.Channel")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*domain.Channel).ID = 9
		}).Return(nil)

	svc := NewChannelService(channelRepo, userRepo)

	channel, err := svc.CreateChannel(1, &domain.CreateChannelRequest{
		Title:             "announcements",
		OnlyAdminsCanPost: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, uint64(9), channel.ID)
	assert.True(t, channel.OnlyAdminsCanPost)
}

func TestGrantRole_RejectsUnknownRole(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(1)).Return(&domain.User{ID: 1, IsAdmin: true}, nil)
	channelRepo := new(MockChannelRepository)

	svc := NewChannelService(channelRepo, userRepo)

	err := svc.GrantRole(1, 9, 2, domain.ChannelRole("owner"))

	assert.ErrorIs(t, err, common.ErrValidation)
	channelRepo.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetOnlyAdminsCanPost_SubscriberDenied(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(4)).Return(&domain.User{ID: 4}, nil)
	channelRepo := new(MockChannelRepository)
	channelRepo.On("RoleOf", uint64(9), uint64(4)).Return(domain.ChannelRoleSubscriber, nil)

	svc := NewChannelService(channelRepo, userRepo)

	err := svc.SetOnlyAdminsCanPost(4, 9, true)

	assert.ErrorIs(t, err, common.ErrPermission)
	channelRepo.AssertNotCalled(t, "SetOnlyAdminsCanPost", mock.Anything, mock.Anything)
}

func TestDeleteChannel_ChannelAdmin(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("FindByID", uint64(4)).Return(&domain.User{ID: 4}, nil)
	channelRepo := new(MockChannelRepository)
	channelRepo.On("RoleOf", uint64(9), uint64(4)).Return(domain.ChannelRoleAdmin, nil)
	channelRepo.On("SoftDelete", uint64(9)).Return(nil)

	svc := NewChannelService(channelRepo, userRepo)

	assert.NoError(t, svc.DeleteChannel(4, 9))
	channelRepo.AssertExpectations(t)
}
