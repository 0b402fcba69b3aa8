package model

import (
	"time"
)

// Message is a direct message between two users, optionally about a resource
type Message struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	SenderID   string    `json:"sender_id" gorm:"type:varchar(36);index;not null"`
	ReceiverID string    `json:"receiver_id" gorm:"type:varchar(36);index;not null"`
	ResourceID *string   `json:"resource_id,omitempty" gorm:"type:varchar(36)"`
	Content    string    `json:"content" gorm:"type:text;not null"`
	IsRead     bool      `json:"is_read" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}
