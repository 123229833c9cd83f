package service

import (
	"fmt"
	"time"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
)

// AuthzService is the authorization gate: pure allow/deny decisions
// over the current membership snapshot. It never mutates state.
type AuthzService interface {
	CheckSend(senderID uint64, dest domain.Destination) error
	CheckReadMessage(userID uint64, msg *domain.Message) error
	CheckRead(userID uint64, dest domain.Destination) error
	CheckMutate(actorID uint64, msg *domain.Message) error
}

type authzService struct {
	userRepo    repository.UserRepository
	groupRepo   repository.GroupRepository
	channelRepo repository.ChannelRepository
	editWindow  time.Duration
}

// NewAuthzService creates a new AuthzService
func NewAuthzService(
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	channelRepo repository.ChannelRepository,
	editWindow time.Duration,
) AuthzService {
	return &authzService{
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		channelRepo: channelRepo,
		editWindow:  editWindow,
	}
}

// CheckSend decides whether sender may post to dest.
//
// Private: both parties must be active. Group: sender must be a
// member. Channel: sender must be a subscriber, and when the channel
// restricts posting, hold the publisher or admin role.
func (s *authzService) CheckSend(senderID uint64, dest domain.Destination) error {
	kind, err := dest.Kind()
	if err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	switch kind {
	case domain.KindPrivate:
		active, err := s.userRepo.IsActive(senderID)
		if err != nil {
			return err
		}
		if !active {
			return fmt.Errorf("%w: sender is deactivated", common.ErrPermission)
		}
		active, err = s.userRepo.IsActive(*dest.ReceiverID)
		if err != nil {
			return err
		}
		if !active {
			return fmt.Errorf("%w: receiver not found or deactivated", common.ErrNotFound)
		}
		return nil

	case domain.KindGroup:
		if _, err := s.groupRepo.FindByID(*dest.GroupID); err != nil {
			return err
		}
		member, err := s.groupRepo.IsMember(*dest.GroupID, senderID)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("%w: sender is not a group member", common.ErrPermission)
		}
		return nil

	case domain.KindChannel:
		channel, err := s.channelRepo.FindByID(*dest.ChannelID)
		if err != nil {
			return err
		}
		role, err := s.channelRepo.RoleOf(*dest.ChannelID, senderID)
		if err != nil {
			return fmt.Errorf("%w: sender is not a subscriber", common.ErrPermission)
		}
		if channel.OnlyAdminsCanPost &&
			role != domain.ChannelRoleAdmin && role != domain.ChannelRolePublisher {
			return fmt.Errorf("%w: only admins and publishers may post to this channel", common.ErrPermission)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown destination", common.ErrValidation)
}

// CheckRead decides whether userID may read the conversation at dest
func (s *authzService) CheckRead(userID uint64, dest domain.Destination) error {
	kind, err := dest.Kind()
	if err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	switch kind {
	case domain.KindPrivate:
		// Any active user may read their own private conversations;
		// participation is checked against the message itself in
		// CheckReadMessage.
		active, err := s.userRepo.IsActive(userID)
		if err != nil {
			return err
		}
		if !active {
			return fmt.Errorf("%w: user is deactivated", common.ErrPermission)
		}
		return nil

	case domain.KindGroup:
		member, err := s.groupRepo.IsMember(*dest.GroupID, userID)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("%w: not a group member", common.ErrPermission)
		}
		return nil

	case domain.KindChannel:
		if _, err := s.channelRepo.FindByID(*dest.ChannelID); err != nil {
			return err
		}
		sub, err := s.channelRepo.IsSubscriber(*dest.ChannelID, userID)
		if err != nil {
			return err
		}
		if !sub {
			return fmt.Errorf("%w: not a channel subscriber", common.ErrPermission)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown destination", common.ErrValidation)
}

// CheckReadMessage decides whether userID may read msg's conversation
func (s *authzService) CheckReadMessage(userID uint64, msg *domain.Message) error {
	if msg.ReceiverID != nil {
		if userID != msg.SenderID && userID != *msg.ReceiverID {
			return fmt.Errorf("%w: not a participant of this conversation", common.ErrPermission)
		}
		return nil
	}
	return s.CheckRead(userID, msg.Destination())
}

// CheckMutate decides whether actorID may edit or delete msg. The
// original sender may mutate within the edit window; conversation
// admins and platform admins may always mutate.
func (s *authzService) CheckMutate(actorID uint64, msg *domain.Message) error {
	admin, err := s.isConversationAdmin(actorID, msg)
	if err != nil {
		return err
	}
	if admin {
		return nil
	}

	if msg.SenderID != actorID {
		return fmt.Errorf("%w: only the sender or an admin may modify a message", common.ErrPermission)
	}
	if s.editWindow > 0 && time.Since(msg.CreatedAt) > s.editWindow {
		return common.ErrEditWindowExpired
	}
	return nil
}

func (s *authzService) isConversationAdmin(actorID uint64, msg *domain.Message) (bool, error) {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		return false, err
	}
	if actor.IsAdmin {
		return true, nil
	}

	switch {
	case msg.GroupID != nil:
		role, err := s.groupRepo.RoleOf(*msg.GroupID, actorID)
		if err != nil {
			return false, nil // non-members are simply not admins
		}
		return role == domain.GroupRoleAdmin, nil
	case msg.ChannelID != nil:
		role, err := s.channelRepo.RoleOf(*msg.ChannelID, actorID)
		if err != nil {
			return false, nil
		}
		return role == domain.ChannelRoleAdmin, nil
	}
	return false, nil
}
