package domain

import "time"

// FileAttachment is an opaque reference to an already-uploaded file.
// Upload, validation and transcoding happen in the external storage
// service; the core only records the reference. Soft-delete cascades
// from the owning message.
type FileAttachment struct {
	ID         uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UploaderID uint64     `gorm:"column:uploader_id;index" json:"uploader_id"`
	Hash       string     `gorm:"column:hash;size:64;index" json:"hash"`
	Size       int64      `gorm:"column:size" json:"size"`
	MimeType   string     `gorm:"column:mime_type;size:128" json:"mime_type"`
	Category   string     `gorm:"column:category;size:32" json:"category"` // image, voice, video, file
	Duration   int        `gorm:"column:duration;default:0" json:"duration,omitempty"`
	IsDeleted  bool       `gorm:"column:is_deleted;default:false" json:"-"`
	DeletedAt  *time.Time `gorm:"column:deleted_at" json:"-"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (FileAttachment) TableName() string { return "file_attachments" }
