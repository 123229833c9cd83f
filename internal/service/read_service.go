package service

import (
	"fmt"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
	"github.com/worktalk/worktalk-backend/internal/ws"
)

// ReadService is the presence/read tracker. Watermarks are monotonic
// per (conversation, user): duplicate or out-of-order MarkRead calls
// are successful no-ops.
type ReadService interface {
	MarkRead(userID uint64, req *domain.MarkReadRequest) error
}

type readService struct {
	receiptRepo repository.ReceiptRepository
	messageRepo repository.MessageRepository
	authz       AuthzService
	pusher      Pusher
}

// NewReadService creates a new ReadService
func NewReadService(
	receiptRepo repository.ReceiptRepository,
	messageRepo repository.MessageRepository,
	authz AuthzService,
	pusher Pusher,
) ReadService {
	return &readService{
		receiptRepo: receiptRepo,
		messageRepo: messageRepo,
		authz:       authz,
		pusher:      pusher,
	}
}

// MarkRead advances the caller's watermark and, on an actual advance,
// notifies the authors of the now-read messages. Private
// conversations name the reader; groups and channels send an
// aggregated reader count to bound fan-out.
func (s *readService) MarkRead(userID uint64, req *domain.MarkReadRequest) error {
	kind, err := req.Destination.Kind()
	if err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, err.Error())
	}

	if err := s.authz.CheckRead(userID, req.Destination); err != nil {
		return err
	}

	// The watermark must point at a real message of this conversation.
	boundary, err := s.messageRepo.FindByID(req.UpToMessageID)
	if err != nil {
		return err
	}
	key := req.Destination.Key(userID)
	if boundary.ConversationKey() != key {
		return fmt.Errorf("%w: message is not in this conversation", common.ErrValidation)
	}
	if kind == domain.KindPrivate && userID != boundary.SenderID && boundary.ReceiverID != nil && userID != *boundary.ReceiverID {
		return fmt.Errorf("%w: not a participant", common.ErrPermission)
	}

	prev, advanced, err := s.receiptRepo.AdvanceMarker(key, userID, req.UpToMessageID)
	if err != nil {
		return err
	}
	if !advanced {
		// At or behind the current watermark: monotonic no-op.
		return nil
	}

	ids, err := s.messageRepo.IDsInRange(req.Destination, userID, prev, req.UpToMessageID)
	if err == nil {
		if err := s.receiptRepo.RecordReceipts(userID, ids); err != nil {
			return err
		}
	}

	s.emitReadEvent(kind, key, userID, prev, req)
	return nil
}

func (s *readService) emitReadEvent(kind domain.ConversationKind, key string, userID, prev uint64, req *domain.MarkReadRequest) {
	payload := &domain.ReadPayload{
		Conversation:  key,
		UpToMessageID: req.UpToMessageID,
	}

	if kind == domain.KindPrivate {
		payload.ReaderID = userID
		s.pusher.SendToUser(*req.ReceiverID, &ws.Event{Type: domain.EventRead, Payload: payload})
		return
	}

	readers, err := s.receiptRepo.ReadersAt(key, req.UpToMessageID)
	if err != nil {
		return
	}
	payload.ReaderCount = readers

	senders, err := s.messageRepo.SendersInRange(req.Destination, userID, prev, req.UpToMessageID)
	if err != nil {
		return
	}
	event := &ws.Event{Type: domain.EventRead, Payload: payload}
	for _, id := range senders {
		s.pusher.SendToUser(id, event)
	}
}
