package repository

import (
	"errors"
	"time"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
)

// UserRepository user data access
type UserRepository interface {
	Create(user *domain.User) error
	FindByID(id uint64) (*domain.User, error)
	FindByPhone(phone string) (*domain.User, error)
	IsActive(id uint64) (bool, error)
	Deactivate(id uint64) error
	DecrementSMSCredit(id uint64) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id uint64) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(phone string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) IsActive(id uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.User{}).
		Where("id = ? AND active = true", id).
		Count(&count).Error
	return count > 0, err
}

// Deactivate soft-disables an account. Users are never hard-deleted.
func (r *userRepository) Deactivate(id uint64) error {
	now := time.Now()
	return r.db.Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"active": false, "deactivated_at": now}).Error
}

func (r *userRepository) DecrementSMSCredit(id uint64) error {
	result := r.db.Model(&domain.User{}).
		Where("id = ? AND sms_credit > 0", id).
		UpdateColumn("sms_credit", gorm.Expr("sms_credit - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrConflict
	}
	return nil
}
