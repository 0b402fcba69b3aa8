package model

import (
	"time"

	"gorm.io/datatypes"
)

// QualityReport is an append-only observation of a water source
type QualityReport struct {
	ID            string                      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	WaterSourceID string                      `json:"water_source_id" gorm:"type:varchar(36);index;not null"`
	ReporterID    string                      `json:"reporter_id" gorm:"type:varchar(36);index;not null"`
	OverallRating string                      `json:"overall_rating" gorm:"type:varchar(20);not null"`
	PHLevel       *float64                    `json:"ph_level,omitempty"`
	Turbidity     *float64                    `json:"turbidity,omitempty"`
	Contaminants  datatypes.JSONSlice[string] `json:"contaminants" gorm:"type:jsonb"`
	TestMethod    *string                     `json:"test_method,omitempty" gorm:"type:varchar(100)"`
	Notes         *string                     `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time                   `json:"created_at"`
}
