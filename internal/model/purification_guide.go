package model

import (
	"time"

	"gorm.io/datatypes"
)

var (
	PurificationMethods = []string{"boiling", "filtration", "chemical", "solar", "distillation", "other"}
	Difficulties        = []string{"easy", "medium", "hard"}
)

// PurificationGuide describes a way to make water safe. UsageCount goes up
// on every read; CommunityRating keeps its default.
type PurificationGuide struct {
	ID              string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title           string                      `json:"title" gorm:"type:varchar(255);not null"`
	Description     string                      `json:"description" gorm:"type:text"`
	MethodType      string                      `json:"method_type" gorm:"type:varchar(20);index;not null"`
	Steps           datatypes.JSONSlice[string] `json:"steps" gorm:"type:jsonb"`
	Materials       datatypes.JSONSlice[string] `json:"materials" gorm:"type:jsonb"`
	Difficulty      string                      `json:"difficulty" gorm:"type:varchar(10);index;not null"`
	TimeRequired    *string                     `json:"time_required,omitempty" gorm:"type:varchar(100)"`
	Effectiveness   *string                     `json:"effectiveness,omitempty" gorm:"type:varchar(255)"`
	UsageCount      int64                       `json:"usage_count" gorm:"not null"`
	CommunityRating float64                     `json:"community_rating" gorm:"not null"`
	CreatedBy       string                      `json:"created_by" gorm:"type:varchar(36);index;not null"`
	IsActive        bool                        `json:"is_active" gorm:"index;not null"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}
