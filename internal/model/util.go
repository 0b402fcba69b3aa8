package model

import (
	"github.com/google/uuid"
)

// NewID returns a random identifier for a new document
func NewID() string {
	return uuid.New().String()
}

// AllModels lists every persisted model, in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Resource{},
		&Message{},
		&WaterSource{},
		&QualityReport{},
		&InfrastructurePlan{},
		&PurificationGuide{},
		&WaterAlert{},
		&WaterUsage{},
		&GeocodeCacheEntry{},
	}
}
