package model

import (
	"time"
)

var (
	ResourceCategories = []string{"food", "water", "tools", "skills", "shelter", "medical", "other"}
	ResourceTypes      = []string{"available", "needed"}
)

// Resource is a community listing of something offered or needed
type Resource struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Category    string     `json:"category" gorm:"type:varchar(20);index;not null"`
	Type        string     `json:"type" gorm:"type:varchar(20);index;not null"`
	UserID      string     `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Location    Location   `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Address     *string    `json:"address,omitempty" gorm:"type:text"`
	Quantity    *string    `json:"quantity,omitempty" gorm:"type:varchar(100)"`
	ContactInfo *string    `json:"contact_info,omitempty" gorm:"type:varchar(255)"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	IsActive    bool       `json:"is_active" gorm:"index;not null"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (r Resource) Point() Location { return r.Location }
