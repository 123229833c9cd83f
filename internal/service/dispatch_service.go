package service

import (
	"fmt"
	"strings"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
	"github.com/worktalk/worktalk-backend/internal/ws"
	"github.com/worktalk/worktalk-backend/pkg/logger"
)

// DispatchService is the message dispatch engine: every
// message-affecting action runs validate → authorize → persist →
// resolve recipients → push, in that order. Nothing is pushed before
// the persistence step commits.
type DispatchService interface {
	SendMessage(senderID uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, []uint64, error)
	EditMessage(actorID, messageID uint64, req *domain.EditMessageRequest) (*domain.MessageResponse, error)
	DeleteMessage(actorID, messageID uint64) error
}

type dispatchService struct {
	messageRepo    repository.MessageRepository
	attachmentRepo repository.AttachmentRepository
	groupRepo      repository.GroupRepository
	channelRepo    repository.ChannelRepository
	authz          AuthzService
	policy         ContentPolicy
	pusher         Pusher
	rejectOnPolicy bool
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(
	messageRepo repository.MessageRepository,
	attachmentRepo repository.AttachmentRepository,
	groupRepo repository.GroupRepository,
	channelRepo repository.ChannelRepository,
	authz AuthzService,
	policy ContentPolicy,
	pusher Pusher,
	rejectOnPolicy bool,
) DispatchService {
	return &dispatchService{
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		groupRepo:      groupRepo,
		channelRepo:    channelRepo,
		authz:          authz,
		policy:         policy,
		pusher:         pusher,
		rejectOnPolicy: rejectOnPolicy,
	}
}

// SendMessage validates, authorizes, persists and fans out one
// message. The returned recipient set is the point-in-time resolution
// used for the push; membership changes after resolution do not
// retroactively affect this delivery.
func (s *dispatchService) SendMessage(senderID uint64, req *domain.SendMessageRequest) (*domain.MessageResponse, []uint64, error) {
	msg, err := s.buildMessage(senderID, req)
	if err != nil {
		return nil, nil, err
	}

	if err := s.authz.CheckSend(senderID, req.Destination); err != nil {
		return nil, nil, err
	}

	if err := s.applyPolicy(msg); err != nil {
		return nil, nil, err
	}

	// Persistence is the commit point: any failure here aborts the
	// whole action before a single session has been pushed to.
	if err := s.messageRepo.Create(msg); err != nil {
		return nil, nil, err
	}

	recipients, err := s.resolveRecipients(senderID, req.Destination)
	if err != nil {
		// The message is durable; recipients will see it on their next
		// history fetch even if this resolution failed.
		logger.GetLogger().Error().Err(err).
			Uint64("message_id", msg.ID).
			Msg("recipient resolution failed after persist")
		return msg.ToResponse(), nil, nil
	}

	resp := msg.ToResponse()
	s.pushToAll(recipients, &ws.Event{
		Type: domain.EventMessageNew,
		Payload: &domain.MessageNewPayload{
			Conversation: msg.ConversationKey(),
			Message:      resp,
		},
	})

	return resp, recipients, nil
}

// buildMessage checks the request shape and resolves its references
func (s *dispatchService) buildMessage(senderID uint64, req *domain.SendMessageRequest) (*domain.Message, error) {
	if _, err := req.Destination.Kind(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	// A bare forward is allowed: content is snapshotted from the source.
	content := strings.TrimSpace(req.Content)
	if content == "" && req.AttachmentID == nil && req.ForwardFromID == nil {
		return nil, fmt.Errorf("%w: message needs text or an attachment", common.ErrValidation)
	}

	msg := &domain.Message{
		SenderID:      senderID,
		ReceiverID:    req.ReceiverID,
		GroupID:       req.GroupID,
		ChannelID:     req.ChannelID,
		Content:       content,
		AttachmentID:  req.AttachmentID,
		ReplyToID:     req.ReplyToID,
		ForwardFromID: req.ForwardFromID,
	}

	if req.AttachmentID != nil {
		att, err := s.attachmentRepo.FindByID(*req.AttachmentID)
		if err != nil {
			return nil, fmt.Errorf("%w: attachment not found", common.ErrValidation)
		}
		if att.UploaderID != senderID {
			return nil, fmt.Errorf("%w: attachment belongs to another user", common.ErrPermission)
		}
		inUse, err := s.messageRepo.AttachmentInUse(*req.AttachmentID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, fmt.Errorf("%w: attachment is already referenced by a message", common.ErrConflict)
		}
	}

	// A reply must target a visible message in the same conversation.
	if req.ReplyToID != nil {
		target, err := s.messageRepo.FindVisibleByID(*req.ReplyToID)
		if err != nil {
			return nil, fmt.Errorf("%w: reply target not found", common.ErrNotFound)
		}
		if !msg.SameConversation(target) {
			return nil, fmt.Errorf("%w: reply target is in another conversation", common.ErrValidation)
		}
	}

	// A forward may cross conversations, but the sender must be able
	// to read the source. The copy is read-only: content is snapshotted
	// at send time.
	if req.ForwardFromID != nil {
		source, err := s.messageRepo.FindVisibleByID(*req.ForwardFromID)
		if err != nil {
			return nil, fmt.Errorf("%w: forward source not found", common.ErrNotFound)
		}
		if err := s.authz.CheckReadMessage(senderID, source); err != nil {
			return nil, err
		}
		// Only the text is snapshotted. The attachment reference stays
		// with the source: a file reference belongs to at most one
		// message.
		if msg.Content == "" {
			msg.Content = source.Content
		}
		if msg.Content == "" && msg.AttachmentID == nil {
			return nil, fmt.Errorf("%w: forward source has no text to copy", common.ErrValidation)
		}
	}

	return msg, nil
}

// applyPolicy runs the content policy: reject or flag per config
func (s *dispatchService) applyPolicy(msg *domain.Message) error {
	if msg.Content == "" {
		return nil
	}
	ok, reason := s.policy.Validate(msg.Content)
	if ok {
		return nil
	}
	if s.rejectOnPolicy {
		return fmt.Errorf("%w: %s", common.ErrForbiddenContent, reason)
	}
	msg.Flagged = true
	logger.GetLogger().Warn().
		Uint64("sender_id", msg.SenderID).
		Str("reason", reason).
		Msg("message flagged for moderation")
	return nil
}

// resolveRecipients takes a live membership snapshot for the
// destination. The sender is always included: their other sessions
// receive the push for multi-device convergence, and clients dedupe
// by message id against the synchronous response.
func (s *dispatchService) resolveRecipients(senderID uint64, dest domain.Destination) ([]uint64, error) {
	switch {
	case dest.ReceiverID != nil:
		if *dest.ReceiverID == senderID {
			return []uint64{senderID}, nil
		}
		return []uint64{*dest.ReceiverID, senderID}, nil
	case dest.GroupID != nil:
		return s.groupRepo.Members(*dest.GroupID)
	case dest.ChannelID != nil:
		return s.channelRepo.Subscribers(*dest.ChannelID)
	}
	return nil, fmt.Errorf("%w: unknown destination", common.ErrValidation)
}

// pushToAll fans an event out to every recipient's sessions.
// Best-effort: the caller already holds its success result.
func (s *dispatchService) pushToAll(recipients []uint64, event *ws.Event) {
	for _, id := range recipients {
		s.pusher.SendToUser(id, event)
	}
}

// EditMessage replaces a message's content and pushes an edit event to
// the original recipient set. The version-guarded update serializes
// concurrent editors; the loser gets a conflict and should refresh.
func (s *dispatchService) EditMessage(actorID, messageID uint64, req *domain.EditMessageRequest) (*domain.MessageResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	}

	msg, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted {
		return nil, fmt.Errorf("%w: message was deleted", common.ErrMessageNotFound)
	}

	if err := s.authz.CheckMutate(actorID, msg); err != nil {
		return nil, err
	}

	// Re-run the policy against the new text. Flagged is recomputed
	// from scratch: an edit can introduce or clear a violation.
	msg.Content = content
	msg.Flagged = false
	if err := s.applyPolicy(msg); err != nil {
		return nil, err
	}

	applied, err := s.messageRepo.EditContent(messageID, msg.Version, content, msg.Flagged)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, fmt.Errorf("%w: message changed concurrently, refresh and retry", common.ErrConflict)
	}

	updated, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return nil, err
	}

	recipients, rerr := s.resolveRecipients(msg.SenderID, msg.Destination())
	if rerr == nil {
		s.pushToAll(recipients, &ws.Event{
			Type: domain.EventMessageEdited,
			Payload: &domain.MessageEditedPayload{
				Conversation: msg.ConversationKey(),
				MessageID:    messageID,
				Content:      updated.Content,
				EditedAt:     *updated.EditedAt,
			},
		})
	}

	return updated.ToResponse(), nil
}

// DeleteMessage tombstones a message and pushes a delete event. A
// concurrent delete that loses the race observes the tombstone and
// returns success without a second push.
func (s *dispatchService) DeleteMessage(actorID, messageID uint64) error {
	msg, err := s.messageRepo.FindByID(messageID)
	if err != nil {
		return err
	}
	if msg.IsDeleted {
		// Already tombstoned: idempotent no-op.
		return nil
	}

	if err := s.authz.CheckMutate(actorID, msg); err != nil {
		return err
	}

	applied, err := s.messageRepo.SoftDelete(messageID)
	if err != nil {
		return err
	}
	if !applied {
		// Lost the race to another deleter; their call pushed the event.
		return nil
	}

	recipients, rerr := s.resolveRecipients(msg.SenderID, msg.Destination())
	if rerr == nil {
		s.pushToAll(recipients, &ws.Event{
			Type: domain.EventMessageDeleted,
			Payload: &domain.MessageDeletedPayload{
				Conversation: msg.ConversationKey(),
				MessageID:    messageID,
			},
		})
	}
	return nil
}
