package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) CreateAlert(ctx context.Context, alert *model.WaterAlert) error {
	return insert(ctx, s.db, alert, "water alert")
}

// GetAlert returns the alert whether or not it has expired
func (s *PostgresStore) GetAlert(ctx context.Context, id string) (*model.WaterAlert, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var alert model.WaterAlert
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&alert).Error; err != nil {
		return nil, translate(err, "failed to get water alert")
	}
	return &alert, nil
}

func (s *PostgresStore) UpdateAlert(ctx context.Context, alert *model.WaterAlert) error {
	return updateOwned(ctx, s.db, alert, "created_by", alert.CreatedBy, "water alert", false, "verified")
}

func (s *PostgresStore) alertQuery(filter AlertFilter) *gorm.DB {
	tx := s.db.Model(&model.WaterAlert{})
	tx = eq(tx, "alert_type", filter.AlertType)
	tx = eq(tx, "severity", filter.Severity)
	if !filter.ActiveAt.IsZero() {
		tx = tx.Where("(expires_at IS NULL OR expires_at > ?)", filter.ActiveAt)
	}
	return nearby(tx, filter.Near, "location_lat", "location_lng")
}

func (s *PostgresStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]model.WaterAlert, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var alerts []model.WaterAlert
	err := s.alertQuery(filter).WithContext(ctx).
		Order("created_at DESC").
		Limit(limitOrDefault(filter.Limit)).
		Find(&alerts).Error
	if err != nil {
		return nil, translate(err, "failed to list water alerts")
	}
	return alerts, nil
}

func (s *PostgresStore) CountAlerts(ctx context.Context, filter AlertFilter) (int64, error) {
	return count(ctx, s.alertQuery(filter), "water alerts")
}
