package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// UpsertUsage inserts the day's row or overwrites the existing one in a
// single statement on the (user_id, date) unique index
func (s *PostgresStore) UpsertUsage(ctx context.Context, usage *model.WaterUsage) (*model.WaterUsage, error) {
	done := prometheus.TrackDBOperation("upsert")
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"drinking_liters",
			"cooking_liters",
			"cleaning_liters",
			"bathing_liters",
			"other_liters",
			"total_liters",
			"notes",
			"updated_at",
		}),
	}).Create(usage).Error
	done(time.Now())
	if err != nil {
		return nil, translate(err, "failed to upsert water usage")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var stored model.WaterUsage
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", usage.UserID, usage.Date).
		First(&stored).Error
	if err != nil {
		return nil, translate(err, "failed to read water usage")
	}
	return &stored, nil
}

// ListUsage returns userID's rows dated on or after since, newest first
func (s *PostgresStore) ListUsage(ctx context.Context, userID, since string) ([]model.WaterUsage, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var usage []model.WaterUsage
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date DESC").
		Limit(DefaultListLimit).
		Find(&usage).Error
	if err != nil {
		return nil, translate(err, "failed to list water usage")
	}
	return usage, nil
}

func (s *PostgresStore) AverageDailyUsage(ctx context.Context, since string) (float64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var avg *float64
	err := s.db.WithContext(ctx).Model(&model.WaterUsage{}).
		Select("AVG(total_liters)").
		Where("date >= ?", since).
		Scan(&avg).Error
	if err != nil {
		return 0, translate(err, "failed to average water usage")
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
