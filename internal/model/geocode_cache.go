package model

import (
	"time"
)

// GeocodeCacheEntry remembers a geocoder answer, including misses
type GeocodeCacheEntry struct {
	AddressHash string    `gorm:"primaryKey;type:varchar(64)"`
	Address     string    `gorm:"type:text;not null"`
	Lat         float64   `gorm:"not null"`
	Lng         float64   `gorm:"not null"`
	Matched     bool      `gorm:"not null"`
	CachedAt    time.Time `gorm:"not null"`
}

func (GeocodeCacheEntry) TableName() string {
	return "geocode_cache"
}
