package repository

import (
	"errors"
	"time"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access. Mutations are guarded by the
// message version (edits) or the tombstone flag (deletes) so that two
// racing writers cannot both apply; the loser observes zero rows
// affected and re-reads.
type MessageRepository interface {
	Create(msg *domain.Message) error
	FindByID(id uint64) (*domain.Message, error)
	FindVisibleByID(id uint64) (*domain.Message, error)
	EditContent(id uint64, version uint32, content string, flagged bool) (bool, error)
	SoftDelete(id uint64) (bool, error)
	AttachmentInUse(attachmentID uint64) (bool, error)

	FindConversation(dest domain.Destination, viewerID uint64, beforeID uint64, limit int) ([]*domain.Message, error)
	IDsInRange(dest domain.Destination, viewerID uint64, afterID, upToID uint64) ([]uint64, error)
	SendersInRange(dest domain.Destination, viewerID uint64, afterID, upToID uint64) ([]uint64, error)
	CountUnread(dest domain.Destination, viewerID uint64, afterID uint64) (int64, error)
	PrivatePeers(userID uint64) ([]uint64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	if err := r.db.Create(msg).Error; err != nil {
		// The unique index on attachment_id backstops the pre-insert
		// in-use check under concurrency.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict
		}
		return common.ErrPersistence
	}
	return nil
}

// AttachmentInUse reports whether any message, tombstoned included,
// already references the attachment. A file reference belongs to at
// most one message for its whole lifetime.
func (r *messageRepository) AttachmentInUse(attachmentID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("attachment_id = ?", attachmentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID returns the row including tombstones. Callers that must
// not see deleted messages use FindVisibleByID.
func (r *messageRepository) FindByID(id uint64) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) FindVisibleByID(id uint64) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.Where("id = ? AND is_deleted = false", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

// EditContent applies a compare-and-swap update on the version column.
// Returns false when another writer got there first. The flagged column
// is rewritten too: an edit can introduce or remove flagged content.
func (r *messageRepository) EditContent(id uint64, version uint32, content string, flagged bool) (bool, error) {
	now := time.Now()
	result := r.db.Model(&domain.Message{}).
		Where("id = ? AND version = ? AND is_deleted = false", id, version).
		Updates(map[string]interface{}{
			"content":   content,
			"flagged":   flagged,
			"is_edited": true,
			"edited_at": now,
			"version":   version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SoftDelete tombstones the message and cascades to its attachment.
// Returns false when the message was already deleted, which callers
// treat as a no-op success.
func (r *messageRepository) SoftDelete(id uint64) (bool, error) {
	applied := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&domain.Message{}).
			Where("id = ? AND is_deleted = false", id).
			Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		applied = true

		var msg domain.Message
		if err := tx.Select("attachment_id").Where("id = ?", id).First(&msg).Error; err != nil {
			return err
		}
		if msg.AttachmentID != nil {
			return tx.Model(&domain.FileAttachment{}).
				Where("id = ? AND is_deleted = false", *msg.AttachmentID).
				Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error
		}
		return nil
	})
	return applied, err
}

// conversationScope narrows a query to one conversation. Private pairs
// match both directions of the (sender, receiver) columns.
func (r *messageRepository) conversationScope(q *gorm.DB, dest domain.Destination, viewerID uint64) *gorm.DB {
	switch {
	case dest.ReceiverID != nil:
		peer := *dest.ReceiverID
		return q.Where(
			"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			viewerID, peer, peer, viewerID,
		)
	case dest.GroupID != nil:
		return q.Where("group_id = ?", *dest.GroupID)
	case dest.ChannelID != nil:
		return q.Where("channel_id = ?", *dest.ChannelID)
	}
	return q.Where("1 = 0")
}

func (r *messageRepository) FindConversation(dest domain.Destination, viewerID uint64, beforeID uint64, limit int) ([]*domain.Message, error) {
	var messages []*domain.Message

	q := r.db.Model(&domain.Message{}).Where("is_deleted = false")
	q = r.conversationScope(q, dest, viewerID)
	if beforeID > 0 {
		q = q.Where("id < ?", beforeID)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	err := q.Order("id DESC").Limit(limit).Find(&messages).Error
	return messages, err
}

// IDsInRange lists visible message ids in (afterID, upToID] not sent
// by the viewer. Used to record read receipts on watermark advance.
func (r *messageRepository) IDsInRange(dest domain.Destination, viewerID uint64, afterID, upToID uint64) ([]uint64, error) {
	var ids []uint64
	q := r.db.Model(&domain.Message{}).
		Where("is_deleted = false AND id > ? AND id <= ? AND sender_id <> ?", afterID, upToID, viewerID)
	q = r.conversationScope(q, dest, viewerID)
	err := q.Order("id").Pluck("id", &ids).Error
	return ids, err
}

// SendersInRange lists the distinct authors of visible messages in
// (afterID, upToID], excluding the viewer. These are the users who get
// a read-receipt event when the viewer's watermark advances.
func (r *messageRepository) SendersInRange(dest domain.Destination, viewerID uint64, afterID, upToID uint64) ([]uint64, error) {
	var ids []uint64
	q := r.db.Model(&domain.Message{}).
		Distinct("sender_id").
		Where("is_deleted = false AND id > ? AND id <= ? AND sender_id <> ?", afterID, upToID, viewerID)
	q = r.conversationScope(q, dest, viewerID)
	err := q.Pluck("sender_id", &ids).Error
	return ids, err
}

func (r *messageRepository) CountUnread(dest domain.Destination, viewerID uint64, afterID uint64) (int64, error) {
	var count int64
	q := r.db.Model(&domain.Message{}).
		Where("is_deleted = false AND id > ? AND sender_id <> ?", afterID, viewerID)
	q = r.conversationScope(q, dest, viewerID)
	err := q.Count(&count).Error
	return count, err
}

// PrivatePeers lists the distinct users the given user has a private
// conversation with.
func (r *messageRepository) PrivatePeers(userID uint64) ([]uint64, error) {
	var sent, received []uint64
	err := r.db.Model(&domain.Message{}).
		Distinct("receiver_id").
		Where("sender_id = ? AND receiver_id IS NOT NULL", userID).
		Pluck("receiver_id", &sent).Error
	if err != nil {
		return nil, err
	}
	err = r.db.Model(&domain.Message{}).
		Distinct("sender_id").
		Where("receiver_id = ?", userID).
		Pluck("sender_id", &received).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]bool, len(sent)+len(received))
	peers := make([]uint64, 0, len(sent)+len(received))
	for _, id := range append(sent, received...) {
		if !seen[id] {
			seen[id] = true
			peers = append(peers, id)
		}
	}
	return peers, nil
}
