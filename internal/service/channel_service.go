package service

import (
	"fmt"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
)

// ChannelService channel lifecycle and subscription management
type ChannelService interface {
	CreateChannel(creatorID uint64, req *domain.CreateChannelRequest) (*domain.Channel, error)
	Subscribe(userID, channelID uint64) error
	Unsubscribe(userID, channelID uint64) error
	GrantRole(actorID, channelID, userID uint64, role domain.ChannelRole) error
	SetOnlyAdminsCanPost(actorID, channelID uint64, value bool) error
	DeleteChannel(actorID, channelID uint64) error
}

type channelService struct {
	channelRepo repository.ChannelRepository
	userRepo    repository.UserRepository
}

// NewChannelService creates a new ChannelService
func NewChannelService(channelRepo repository.ChannelRepository, userRepo repository.UserRepository) ChannelService {
	return &channelService{channelRepo: channelRepo, userRepo: userRepo}
}

// CreateChannel creates a channel with the creator as admin
func (s *channelService) CreateChannel(creatorID uint64, req *domain.CreateChannelRequest) (*domain.Channel, error) {
	creator, err := s.userRepo.FindByID(creatorID)
	if err != nil {
		return nil, err
	}
	if !creator.CanCreateChannel && !creator.IsAdmin {
		return nil, fmt.Errorf("%w: not allowed to create channels", common.ErrPermission)
	}

	channel := &domain.Channel{
		Title:             req.Title,
		CreatorID:         creatorID,
		OnlyAdminsCanPost: req.OnlyAdminsCanPost,
	}
	if err := s.channelRepo.Create(channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// Subscribe adds the caller as a plain subscriber
func (s *channelService) Subscribe(userID, channelID uint64) error {
	if _, err := s.channelRepo.FindByID(channelID); err != nil {
		return err
	}
	return s.channelRepo.Subscribe(&domain.ChannelSubscriber{
		ChannelID: channelID,
		UserID:    userID,
		Role:      domain.ChannelRoleSubscriber,
	})
}

// Unsubscribe removes the caller's subscription
func (s *channelService) Unsubscribe(userID, channelID uint64) error {
	return s.channelRepo.Unsubscribe(channelID, userID)
}

// GrantRole sets a subscriber's role (channel admin only)
func (s *channelService) GrantRole(actorID, channelID, userID uint64, role domain.ChannelRole) error {
	if err := s.requireAdmin(actorID, channelID); err != nil {
		return err
	}
	switch role {
	case domain.ChannelRoleSubscriber, domain.ChannelRolePublisher, domain.ChannelRoleAdmin:
	default:
		return fmt.Errorf("%w: unknown channel role %q", common.ErrValidation, role)
	}
	return s.channelRepo.SetRole(channelID, userID, role)
}

// SetOnlyAdminsCanPost toggles the posting restriction (admin only)
func (s *channelService) SetOnlyAdminsCanPost(actorID, channelID uint64, value bool) error {
	if err := s.requireAdmin(actorID, channelID); err != nil {
		return err
	}
	return s.channelRepo.SetOnlyAdminsCanPost(channelID, value)
}

// DeleteChannel soft-deletes the channel; all reads honor the flag
func (s *channelService) DeleteChannel(actorID, channelID uint64) error {
	if err := s.requireAdmin(actorID, channelID); err != nil {
		return err
	}
	return s.channelRepo.SoftDelete(channelID)
}

func (s *channelService) requireAdmin(actorID, channelID uint64) error {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return err
	}
	if actor.IsAdmin {
		return nil
	}
	role, err := s.channelRepo.RoleOf(channelID, actorID)
	if err != nil {
		return err
	}
	if role != domain.ChannelRoleAdmin {
		return fmt.Errorf("%w: channel admin required", common.ErrPermission)
	}
	return nil
}
