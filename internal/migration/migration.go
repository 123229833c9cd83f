package migration

import (
	"github.com/worktalk/worktalk-backend/internal/domain"
	"gorm.io/gorm"
)

// Run applies the chat schema
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Group{},
		&domain.GroupMember{},
		&domain.Channel{},
		&domain.ChannelSubscriber{},
		&domain.Message{},
		&domain.Reaction{},
		&domain.ReadReceipt{},
		&domain.ReadMarker{},
		&domain.FileAttachment{},
	)
}
