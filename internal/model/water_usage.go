package model

import (
	"time"
)

// DateLayout is the day-granularity format of WaterUsage.Date
const DateLayout = "2006-01-02"

// WaterUsage is one user's consumption for one day. (UserID, Date) is unique.
type WaterUsage struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_water_usage_user_date"`
	Date           string    `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:idx_water_usage_user_date;index"`
	DrinkingLiters float64   `json:"drinking_liters" gorm:"not null"`
	CookingLiters  float64   `json:"cooking_liters" gorm:"not null"`
	CleaningLiters float64   `json:"cleaning_liters" gorm:"not null"`
	BathingLiters  float64   `json:"bathing_liters" gorm:"not null"`
	OtherLiters    float64   `json:"other_liters" gorm:"not null"`
	TotalLiters    float64   `json:"total_liters" gorm:"not null"`
	Notes          *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ComputeTotal sets TotalLiters to the sum of the five categories
func (u *WaterUsage) ComputeTotal() {
	u.TotalLiters = u.DrinkingLiters + u.CookingLiters + u.CleaningLiters + u.BathingLiters + u.OtherLiters
}

func (WaterUsage) TableName() string {
	return "water_usage"
}
