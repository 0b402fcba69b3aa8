package model

import (
	"time"

	"gorm.io/datatypes"
)

var (
	AlertTypes      = []string{"contamination", "shortage", "outage", "infrastructure", "other"}
	AlertSeverities = []string{"low", "medium", "high", "critical"}
)

const DefaultAlertRadiusKm = 5.0

// WaterAlert warns people near Location. It stops showing up in listings
// once ExpiresAt has passed.
type WaterAlert struct {
	ID                string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title             string                      `json:"title" gorm:"type:varchar(255);not null"`
	Description       string                      `json:"description" gorm:"type:text"`
	AlertType         string                      `json:"alert_type" gorm:"type:varchar(20);index;not null"`
	Severity          string                      `json:"severity" gorm:"type:varchar(10);index;not null"`
	Location          Location                    `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	RadiusKm          float64                     `json:"radius_km" gorm:"not null"`
	AffectedSourceIDs datatypes.JSONSlice[string] `json:"affected_source_ids" gorm:"type:jsonb"`
	ExpiresAt         *time.Time                  `json:"expires_at,omitempty" gorm:"index"`
	Verified          bool                        `json:"verified" gorm:"not null"`
	CreatedBy         string                      `json:"created_by" gorm:"type:varchar(36);index;not null"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

func (a WaterAlert) Point() Location { return a.Location }

// ExpiredAt reports whether the alert had lapsed at now
func (a WaterAlert) ExpiredAt(now time.Time) bool {
	return a.ExpiresAt != nil && !a.ExpiresAt.After(now)
}
