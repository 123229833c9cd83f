package repository

import (
	"errors"
	"time"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
)

// ChannelRepository channel + subscriber data access
type ChannelRepository interface {
	Create(channel *domain.Channel) error
	FindByID(id uint64) (*domain.Channel, error)
	SetOnlyAdminsCanPost(id uint64, value bool) error
	SoftDelete(id uint64) error

	ChannelsOf(userID uint64) ([]uint64, error)
	IsSubscriber(channelID, userID uint64) (bool, error)
	RoleOf(channelID, userID uint64) (domain.ChannelRole, error)
	Subscribers(channelID uint64) ([]uint64, error)
	Subscribe(sub *domain.ChannelSubscriber) error
	Unsubscribe(channelID, userID uint64) error
	SetRole(channelID, userID uint64, role domain.ChannelRole) error
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

// Create persists the channel and its creator's admin subscription in
// one transaction.
func (r *channelRepository) Create(channel *domain.Channel) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(channel).Error; err != nil {
			return err
		}
		creator := &domain.ChannelSubscriber{
			ChannelID: channel.ID,
			UserID:    channel.CreatorID,
			Role:      domain.ChannelRoleAdmin,
		}
		return tx.Create(creator).Error
	})
}

// FindByID honors the channel soft-delete flag, as every read must.
func (r *channelRepository) FindByID(id uint64) (*domain.Channel, error) {
	var channel domain.Channel
	err := r.db.Where("id = ? AND is_deleted = false", id).First(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) SetOnlyAdminsCanPost(id uint64, value bool) error {
	return r.db.Model(&domain.Channel{}).
		Where("id = ? AND is_deleted = false", id).
		Update("only_admins_can_post", value).Error
}

func (r *channelRepository) SoftDelete(id uint64) error {
	now := time.Now()
	return r.db.Model(&domain.Channel{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error
}

// ChannelsOf lists non-deleted channels the user subscribes to
func (r *channelRepository) ChannelsOf(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.ChannelSubscriber{}).
		Joins("JOIN channels ON channels.id = channel_subscribers.channel_id AND channels.is_deleted = false").
		Where("channel_subscribers.user_id = ?", userID).
		Pluck("channel_subscribers.channel_id", &ids).Error
	return ids, err
}

func (r *channelRepository) IsSubscriber(channelID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ChannelSubscriber{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *channelRepository) RoleOf(channelID, userID uint64) (domain.ChannelRole, error) {
	var sub domain.ChannelSubscriber
	err := r.db.Where("channel_id = ? AND user_id = ?", channelID, userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", common.ErrNotSubscriber
		}
		return "", err
	}
	return sub.Role, nil
}

func (r *channelRepository) Subscribers(channelID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.ChannelSubscriber{}).
		Where("channel_id = ?", channelID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *channelRepository) Subscribe(sub *domain.ChannelSubscriber) error {
	var existing int64
	if err := r.db.Model(&domain.ChannelSubscriber{}).
		Where("channel_id = ? AND user_id = ?", sub.ChannelID, sub.UserID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return common.ErrConflict
	}
	return r.db.Create(sub).Error
}

func (r *channelRepository) Unsubscribe(channelID, userID uint64) error {
	result := r.db.Where("channel_id = ? AND user_id = ?", channelID, userID).
		Delete(&domain.ChannelSubscriber{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotSubscriber
	}
	return nil
}

func (r *channelRepository) SetRole(channelID, userID uint64, role domain.ChannelRole) error {
	result := r.db.Model(&domain.ChannelSubscriber{}).
		Where("channel_id = ? AND user_id = ?", channelID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotSubscriber
	}
	return nil
}
