package repository

import (
	"errors"

	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceiptRepository read-marker and read-receipt data access
type ReceiptRepository interface {
	// AdvanceMarker moves the (conversation, user) watermark forward.
	// Returns the previous watermark and whether an advance happened;
	// a call with upTo at or below the current watermark is a no-op.
	AdvanceMarker(conversationKey string, userID, upTo uint64) (prev uint64, advanced bool, err error)
	Marker(conversationKey string, userID uint64) (uint64, error)
	RecordReceipts(userID uint64, messageIDs []uint64) error
	ReadersAt(conversationKey string, messageID uint64) (int64, error)
}

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new ReceiptRepository
func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) AdvanceMarker(conversationKey string, userID, upTo uint64) (uint64, bool, error) {
	var prev uint64
	advanced := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Conflict-tolerant insert: two concurrent first readers both
		// land here, one creates, the other falls through to the
		// guarded update. Neither errors.
		marker := domain.ReadMarker{
			ConversationKey:   conversationKey,
			UserID:            userID,
			LastReadMessageID: upTo,
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			advanced = true
			return nil
		}

		var existing domain.ReadMarker
		if err := tx.Where("conversation_key = ? AND user_id = ?", conversationKey, userID).
			First(&existing).Error; err != nil {
			return err
		}
		prev = existing.LastReadMessageID

		// Monotonic: only ever advance. The guarded update makes a
		// concurrent caller with a higher watermark win cleanly.
		res := tx.Model(&domain.ReadMarker{}).
			Where("conversation_key = ? AND user_id = ? AND last_read_message_id < ?",
				conversationKey, userID, upTo).
			Update("last_read_message_id", upTo)
		if res.Error != nil {
			return res.Error
		}
		advanced = res.RowsAffected > 0
		return nil
	})

	return prev, advanced, err
}

func (r *receiptRepository) Marker(conversationKey string, userID uint64) (uint64, error) {
	var marker domain.ReadMarker
	err := r.db.Where("conversation_key = ? AND user_id = ?", conversationKey, userID).
		First(&marker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return marker.LastReadMessageID, nil
}

// RecordReceipts inserts first-read receipts, ignoring pairs already
// recorded.
func (r *receiptRepository) RecordReceipts(userID uint64, messageIDs []uint64) error {
	if len(messageIDs) == 0 {
		return nil
	}
	receipts := make([]*domain.ReadReceipt, len(messageIDs))
	for i, id := range messageIDs {
		receipts[i] = &domain.ReadReceipt{MessageID: id, UserID: userID}
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&receipts).Error
}

// ReadersAt counts users whose watermark covers the given message
func (r *receiptRepository) ReadersAt(conversationKey string, messageID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ReadMarker{}).
		Where("conversation_key = ? AND last_read_message_id >= ?", conversationKey, messageID).
		Count(&count).Error
	return count, err
}
