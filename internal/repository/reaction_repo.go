package repository

import (
	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReactionRepository reaction data access. The unique index on
// (message_id, user_id, emoji) makes Add idempotent.
type ReactionRepository interface {
	Add(reaction *domain.Reaction) (bool, error)
	Remove(messageID, userID uint64, emoji string) (bool, error)
	Count(messageID uint64, emoji string) (int64, error)
	ForMessage(messageID uint64) ([]*domain.Reaction, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Add inserts the triple, ignoring duplicates. Returns whether a row
// was actually created.
func (r *reactionRepository) Add(reaction *domain.Reaction) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(reaction)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the triple. Returns whether a row existed.
func (r *reactionRepository) Remove(messageID, userID uint64, emoji string) (bool, error) {
	result := r.db.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&domain.Reaction{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *reactionRepository) Count(messageID uint64, emoji string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Reaction{}).
		Where("message_id = ? AND emoji = ?", messageID, emoji).
		Count(&count).Error
	return count, err
}

func (r *reactionRepository) ForMessage(messageID uint64) ([]*domain.Reaction, error) {
	var reactions []*domain.Reaction
	err := r.db.Where("message_id = ?", messageID).
		Order("id").Find(&reactions).Error
	return reactions, err
}
