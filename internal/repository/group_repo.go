package repository

import (
	"errors"
	"time"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
)

// GroupRepository group + membership data access. It doubles as the
// membership store the authorization gate reads from.
type GroupRepository interface {
	Create(group *domain.Group) error
	FindByID(id uint64) (*domain.Group, error)
	SoftDelete(id uint64) error

	GroupsOf(userID uint64) ([]uint64, error)
	IsMember(groupID, userID uint64) (bool, error)
	RoleOf(groupID, userID uint64) (domain.GroupRole, error)
	Members(groupID uint64) ([]uint64, error)
	MemberCount(groupID uint64) (int64, error)
	AddMember(member *domain.GroupMember, maxMembers int) error
	RemoveMember(groupID, userID uint64) error
	SetRole(groupID, userID uint64, role domain.GroupRole) error
}

type groupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// Create persists the group and its creator's admin membership in one
// transaction.
func (r *groupRepository) Create(group *domain.Group) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		creator := &domain.GroupMember{
			GroupID: group.ID,
			UserID:  group.CreatorID,
			Role:    domain.GroupRoleAdmin,
		}
		return tx.Create(creator).Error
	})
}

func (r *groupRepository) FindByID(id uint64) (*domain.Group, error) {
	var group domain.Group
	err := r.db.Where("id = ? AND is_deleted = false", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) SoftDelete(id uint64) error {
	now := time.Now()
	return r.db.Model(&domain.Group{}).
		Where("id = ? AND is_deleted = false", id).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": now}).Error
}

// GroupsOf lists non-deleted groups the user belongs to
func (r *groupRepository) GroupsOf(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.GroupMember{}).
		Joins("JOIN chat_groups ON chat_groups.id = chat_group_members.group_id AND chat_groups.is_deleted = false").
		Where("chat_group_members.user_id = ?", userID).
		Pluck("chat_group_members.group_id", &ids).Error
	return ids, err
}

func (r *groupRepository) IsMember(groupID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *groupRepository) RoleOf(groupID, userID uint64) (domain.GroupRole, error) {
	var member domain.GroupMember
	err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", common.ErrNotGroupMember
		}
		return "", err
	}
	return member.Role, nil
}

func (r *groupRepository) Members(groupID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *groupRepository) MemberCount(groupID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

// AddMember inserts a membership row after re-checking the size limit
// inside the transaction, so two concurrent joins cannot both slip
// past a full group.
func (r *groupRepository) AddMember(member *domain.GroupMember, maxMembers int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.GroupMember{}).
			Where("group_id = ?", member.GroupID).
			Count(&count).Error; err != nil {
			return err
		}
		if maxMembers > 0 && count >= int64(maxMembers) {
			return common.ErrGroupFull
		}

		var existing int64
		if err := tx.Model(&domain.GroupMember{}).
			Where("group_id = ? AND user_id = ?", member.GroupID, member.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return common.ErrConflict
		}

		return tx.Create(member).Error
	})
}

func (r *groupRepository) RemoveMember(groupID, userID uint64) error {
	result := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&domain.GroupMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotGroupMember
	}
	return nil
}

func (r *groupRepository) SetRole(groupID, userID uint64, role domain.GroupRole) error {
	result := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotGroupMember
	}
	return nil
}
