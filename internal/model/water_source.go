package model

import (
	"time"
)

var (
	WaterSourceTypes = []string{"well", "spring", "tap", "river", "lake", "rainwater", "other"}
	Accessibilities  = []string{"public", "restricted", "private"}
	QualityStatuses  = []string{QualityUnknown, QualitySafe, QualityCaution, QualityUnsafe}
	QualityRatings   = []string{QualitySafe, QualityCaution, QualityUnsafe}
)

const (
	QualityUnknown = "unknown"
	QualitySafe    = "safe"
	QualityCaution = "caution"
	QualityUnsafe  = "unsafe"
)

// WaterSource is a place where water can be collected. QualityStatus follows
// the most recent QualityReport.
type WaterSource struct {
	ID             string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name           string     `json:"name" gorm:"type:varchar(255);not null"`
	Description    string     `json:"description" gorm:"type:text"`
	Type           string     `json:"type" gorm:"type:varchar(20);index;not null"`
	Location       Location   `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	Address        *string    `json:"address,omitempty" gorm:"type:text"`
	Accessibility  string     `json:"accessibility" gorm:"type:varchar(20);index;not null"`
	QualityStatus  string     `json:"quality_status" gorm:"type:varchar(20);index;not null"`
	OperatingHours *string    `json:"operating_hours,omitempty" gorm:"type:varchar(100)"`
	Notes          *string    `json:"notes,omitempty" gorm:"type:text"`
	LastTestedAt   *time.Time `json:"last_tested_at,omitempty"`
	AddedBy        string     `json:"added_by" gorm:"type:varchar(36);index;not null"`
	IsActive       bool       `json:"is_active" gorm:"index;not null"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (w WaterSource) Point() Location { return w.Location }
