package service

import (
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
)

// UnreadCount is one conversation's unread total for a user
type UnreadCount struct {
	Conversation string `json:"conversation"`
	Count        int64  `json:"count"`
}

// ConversationService is the history read path: paged conversation
// fetches (which also cover offline catch-up, since there is no
// durable outbox) and unread counts from the read watermark.
type ConversationService interface {
	History(viewerID uint64, dest domain.Destination, beforeID uint64, limit int) ([]*domain.MessageResponse, error)
	UnreadCounts(userID uint64) ([]UnreadCount, error)
}

type conversationService struct {
	messageRepo repository.MessageRepository
	receiptRepo repository.ReceiptRepository
	groupRepo   repository.GroupRepository
	channelRepo repository.ChannelRepository
	authz       AuthzService
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	messageRepo repository.MessageRepository,
	receiptRepo repository.ReceiptRepository,
	groupRepo repository.GroupRepository,
	channelRepo repository.ChannelRepository,
	authz AuthzService,
) ConversationService {
	return &conversationService{
		messageRepo: messageRepo,
		receiptRepo: receiptRepo,
		groupRepo:   groupRepo,
		channelRepo: channelRepo,
		authz:       authz,
	}
}

// History returns a page of a conversation, newest first. Tombstoned
// messages are filtered out, as on every default read.
func (s *conversationService) History(viewerID uint64, dest domain.Destination, beforeID uint64, limit int) ([]*domain.MessageResponse, error) {
	if err := s.authz.CheckRead(viewerID, dest); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindConversation(dest, viewerID, beforeID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.MessageResponse, len(messages))
	for i, m := range messages {
		responses[i] = m.ToResponse()
	}
	return responses, nil
}

// UnreadCounts computes per-conversation unread totals for all of the
// user's conversations.
func (s *conversationService) UnreadCounts(userID uint64) ([]UnreadCount, error) {
	var counts []UnreadCount

	appendCount := func(dest domain.Destination) error {
		key := dest.Key(userID)
		watermark, err := s.receiptRepo.Marker(key, userID)
		if err != nil {
			return err
		}
		n, err := s.messageRepo.CountUnread(dest, userID, watermark)
		if err != nil {
			return err
		}
		if n > 0 {
			counts = append(counts, UnreadCount{Conversation: key, Count: n})
		}
		return nil
	}

	peers, err := s.messageRepo.PrivatePeers(userID)
	if err != nil {
		return nil, err
	}
	for _, peer := range peers {
		p := peer
		if err := appendCount(domain.Destination{ReceiverID: &p}); err != nil {
			return nil, err
		}
	}

	groups, err := s.groupRepo.GroupsOf(userID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		id := g
		if err := appendCount(domain.Destination{GroupID: &id}); err != nil {
			return nil, err
		}
	}

	channels, err := s.channelRepo.ChannelsOf(userID)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		id := ch
		if err := appendCount(domain.Destination{ChannelID: &id}); err != nil {
			return nil, err
		}
	}

	return counts, nil
}
