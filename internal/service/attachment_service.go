package service

import (
	"fmt"

	"github.com/worktalk/worktalk-backend/internal/common"
	"github.com/worktalk/worktalk-backend/internal/domain"
	"github.com/worktalk/worktalk-backend/internal/repository"
)

// AttachmentService registers file references handed over by the
// external upload service. Bytes never pass through this backend.
type AttachmentService interface {
	Register(uploaderID uint64, req *domain.RegisterAttachmentRequest) (*domain.FileAttachment, error)
	Get(userID, attachmentID uint64) (*domain.FileAttachment, error)
}

type attachmentService struct {
	attachmentRepo repository.AttachmentRepository
}

// NewAttachmentService creates a new AttachmentService
func NewAttachmentService(attachmentRepo repository.AttachmentRepository) AttachmentService {
	return &attachmentService{attachmentRepo: attachmentRepo}
}

// Register stores the opaque file reference under the caller's id.
// Only the uploader may attach it to messages afterwards.
func (s *attachmentService) Register(uploaderID uint64, req *domain.RegisterAttachmentRequest) (*domain.FileAttachment, error) {
	if req.Hash == "" || req.Size <= 0 {
		return nil, fmt.Errorf("%w: hash and size are required", common.ErrValidation)
	}

	att := &domain.FileAttachment{
		UploaderID: uploaderID,
		Hash:       req.Hash,
		Size:       req.Size,
		MimeType:   req.MimeType,
		Category:   req.Category,
		Duration:   req.Duration,
	}
	if err := s.attachmentRepo.Create(att); err != nil {
		return nil, err
	}
	return att, nil
}

// Get returns an attachment reference; only the uploader may look it
// up directly (recipients see it through the message).
func (s *attachmentService) Get(userID, attachmentID uint64) (*domain.FileAttachment, error) {
	att, err := s.attachmentRepo.FindByID(attachmentID)
	if err != nil {
		return nil, err
	}
	if att.UploaderID != userID {
		return nil, fmt.Errorf("%w: attachment belongs to another user", common.ErrPermission)
	}
	return att, nil
}
