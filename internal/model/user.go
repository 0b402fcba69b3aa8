package model

import (
	"time"
)

// User represents a registered community member
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	FullName     *string   `json:"full_name,omitempty" gorm:"type:varchar(255)"`
	Location     *Location `json:"location,omitempty" gorm:"type:jsonb;serializer:json"`
	Phone        *string   `json:"phone,omitempty" gorm:"type:varchar(50)"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}
