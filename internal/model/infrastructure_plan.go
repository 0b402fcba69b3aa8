package model

import (
	"time"
)

var PlanTypes = []string{"well", "purification_system", "pipeline", "storage", "rainwater_harvesting", "other"}

// FundingSeeking is the funding status every plan starts with. Nothing moves
// a plan off it.
const FundingSeeking = "seeking"

// InfrastructurePlan is a proposed community water project
type InfrastructurePlan struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title         string    `json:"title" gorm:"type:varchar(255);not null"`
	Description   string    `json:"description" gorm:"type:text"`
	PlanType      string    `json:"plan_type" gorm:"type:varchar(30);index;not null"`
	Location      Location  `json:"location" gorm:"embedded;embeddedPrefix:location_"`
	EstimatedCost *float64  `json:"estimated_cost,omitempty"`
	Beneficiaries *int      `json:"beneficiaries,omitempty"`
	Timeline      *string   `json:"timeline,omitempty" gorm:"type:varchar(100)"`
	FundingStatus string    `json:"funding_status" gorm:"type:varchar(30);index;not null"`
	CreatedBy     string    `json:"created_by" gorm:"type:varchar(36);index;not null"`
	IsActive      bool      `json:"is_active" gorm:"index;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p InfrastructurePlan) Point() Location { return p.Location }
