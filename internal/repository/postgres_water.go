package repository

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) CreateWaterSource(ctx context.Context, source *model.WaterSource) error {
	return insert(ctx, s.db, source, "water source")
}

func (s *PostgresStore) GetWaterSource(ctx context.Context, id string) (*model.WaterSource, error) {
	return findActive[model.WaterSource](ctx, s.db, id, "water source")
}

func (s *PostgresStore) UpdateWaterSource(ctx context.Context, source *model.WaterSource) error {
	return updateOwned(ctx, s.db, source, "added_by", source.AddedBy, "water source", true, "quality_status", "last_tested_at")
}

// SetWaterSourceQuality records the outcome of the latest quality report
func (s *PostgresStore) SetWaterSourceQuality(ctx context.Context, id, status string, testedAt time.Time) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	res := s.db.WithContext(ctx).Model(&model.WaterSource{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"quality_status": status,
			"last_tested_at": testedAt,
			"updated_at":     testedAt,
		})
	if res.Error != nil {
		return translate(res.Error, "failed to update water source quality")
	}
	if res.RowsAffected == 0 {
		return eris.Wrap(ErrNotFound, "failed to update water source quality")
	}
	return nil
}

func (s *PostgresStore) DeactivateWaterSource(ctx context.Context, id, ownerID string, at time.Time) error {
	return deactivate[model.WaterSource](ctx, s.db, id, "added_by", ownerID, "water source", at)
}

func (s *PostgresStore) waterSourceQuery(filter WaterSourceFilter) *gorm.DB {
	tx := s.db.Model(&model.WaterSource{}).Where("is_active = ?", true)
	tx = eq(tx, "type", filter.Type)
	tx = eq(tx, "accessibility", filter.Accessibility)
	tx = eq(tx, "quality_status", filter.QualityStatus)
	return nearby(tx, filter.Near, "location_lat", "location_lng")
}

func (s *PostgresStore) ListWaterSources(ctx context.Context, filter WaterSourceFilter) ([]model.WaterSource, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var sources []model.WaterSource
	err := s.waterSourceQuery(filter).WithContext(ctx).
		Order("created_at DESC").
		Limit(limitOrDefault(filter.Limit)).
		Find(&sources).Error
	if err != nil {
		return nil, translate(err, "failed to list water sources")
	}
	return sources, nil
}

func (s *PostgresStore) CountWaterSources(ctx context.Context, filter WaterSourceFilter) (int64, error) {
	return count(ctx, s.waterSourceQuery(filter), "water sources")
}

func (s *PostgresStore) CreateQualityReport(ctx context.Context, report *model.QualityReport) error {
	return insert(ctx, s.db, report, "quality report")
}

// ListQualityReports returns the reports filed against sourceID, newest first
func (s *PostgresStore) ListQualityReports(ctx context.Context, sourceID string, limit int) ([]model.QualityReport, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var reports []model.QualityReport
	err := s.db.WithContext(ctx).
		Where("water_source_id = ?", sourceID).
		Order("created_at DESC").
		Limit(limitOrDefault(limit)).
		Find(&reports).Error
	if err != nil {
		return nil, translate(err, "failed to list quality reports")
	}
	return reports, nil
}
