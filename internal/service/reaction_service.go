package service

import (
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
	"github.com/worktalk/worktalk-backend/internal/ws"
)

// ReactionService handles emoji reactions. Adds and removes are
// idempotent: a duplicate add or a remove of a missing reaction is a
// successful no-op and pushes nothing.
type ReactionService interface {
	AddReaction(userID, messageID uint64, emoji string) (*domain.ReactionPayload, error)
	RemoveReaction(userID, messageID uint64, emoji string) (*domain.ReactionPayload, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	messageRepo  repository.MessageRepository
	groupRepo    repository.GroupRepository
	channelRepo  repository.ChannelRepository
	authz        AuthzService
	pusher       Pusher
}

// NewReactionService creates a new ReactionService
func NewReactionService(
	reactionRepo repository.ReactionRepository,
	messageRepo repository.MessageRepository,
	groupRepo repository.GroupRepository,
	channelRepo repository.ChannelRepository,
	authz AuthzService,
	pusher Pusher,
) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		messageRepo:  messageRepo,
		groupRepo:    groupRepo,
		channelRepo:  channelRepo,
		authz:        authz,
		pusher:       pusher,
	}
}

// AddReaction upserts the (message, user, emoji) triple and pushes a
// reaction delta to the message's recipient set.
func (s *reactionService) AddReaction(userID, messageID uint64, emoji string) (*domain.ReactionPayload, error) {
	msg, err := s.messageRepo.FindVisibleByID(messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckReadMessage(userID, msg); err != nil {
		return nil, err
	}

	created, err := s.reactionRepo.Add(&domain.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	})
	if err != nil {
		return nil, err
	}

	count, err := s.reactionRepo.Count(messageID, emoji)
	if err != nil {
		return nil, err
	}

	payload := &domain.ReactionPayload{
		Conversation: msg.ConversationKey(),
		MessageID:    messageID,
		Emoji:        emoji,
		Count:        count,
		UserID:       userID,
	}

	// Duplicate add: idempotent success, nothing changed, no push.
	if created {
		s.push(msg, payload)
	}
	return payload, nil
}

// RemoveReaction deletes the triple and pushes a delta when a row
// actually existed.
func (s *reactionService) RemoveReaction(userID, messageID uint64, emoji string) (*domain.ReactionPayload, error) {
	msg, err := s.messageRepo.FindVisibleByID(messageID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.CheckReadMessage(userID, msg); err != nil {
		return nil, err
	}

	removed, err := s.reactionRepo.Remove(messageID, userID, emoji)
	if err != nil {
		return nil, err
	}

	count, err := s.reactionRepo.Count(messageID, emoji)
	if err != nil {
		return nil, err
	}

	payload := &domain.ReactionPayload{
		Conversation: msg.ConversationKey(),
		MessageID:    messageID,
		Emoji:        emoji,
		Count:        count,
		UserID:       userID,
		Removed:      true,
	}

	if removed {
		s.push(msg, payload)
	}
	return payload, nil
}

// push fans the delta out to the same recipient set as the original
// message.
func (s *reactionService) push(msg *domain.Message, payload *domain.ReactionPayload) {
	var recipients []uint64
	var err error
	switch {
	case msg.ReceiverID != nil:
		recipients = []uint64{msg.SenderID, *msg.ReceiverID}
	case msg.GroupID != nil:
		recipients, err = s.groupRepo.Members(*msg.GroupID)
	case msg.ChannelID != nil:
		recipients, err = s.channelRepo.Subscribers(*msg.ChannelID)
	}
	if err != nil {
		return
	}

	event := &ws.Event{Type: domain.EventReaction, Payload: payload}
	for _, id := range recipients {
		s.pusher.SendToUser(id, event)
	}
}
