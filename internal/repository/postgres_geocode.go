package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) GetGeocode(ctx context.Context, hash string) (*model.GeocodeCacheEntry, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var entry model.GeocodeCacheEntry
	if err := s.db.WithContext(ctx).Where("address_hash = ?", hash).First(&entry).Error; err != nil {
		return nil, translate(err, "failed to get geocode cache entry")
	}
	return &entry, nil
}

func (s *PostgresStore) PutGeocode(ctx context.Context, entry *model.GeocodeCacheEntry) error {
	defer prometheus.TrackDBOperation("upsert")(time.Now())

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"address", "lat", "lng", "matched", "cached_at"}),
	}).Create(entry).Error
	if err != nil {
		return translate(err, "failed to store geocode cache entry")
	}
	return nil
}
