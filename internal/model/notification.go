package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID        `json:"userId" gorm:"type:char(36);not null;index:idx_notifications_user_read"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20);not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	IsRead    bool             `json:"isRead" gorm:"not null;default:false;index:idx_notifications_user_read"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
