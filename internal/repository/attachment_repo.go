package repository

import (
	"errors"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
)

// AttachmentRepository file-attachment reference data access
type AttachmentRepository interface {
	Create(att *domain.FileAttachment) error
	FindByID(id uint64) (*domain.FileAttachment, error)
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(att *domain.FileAttachment) error {
	return r.db.Create(att).Error
}

func (r *attachmentRepository) FindByID(id uint64) (*domain.FileAttachment, error) {
	var att domain.FileAttachment
	err := r.db.Where("id = ? AND is_deleted = false", id).First(&att).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &att, nil
}
