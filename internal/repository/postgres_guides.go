package repository

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) CreateGuide(ctx context.Context, guide *model.PurificationGuide) error {
	return insert(ctx, s.db, guide, "purification guide")
}

func (s *PostgresStore) GetGuide(ctx context.Context, id string) (*model.PurificationGuide, error) {
	return findActive[model.PurificationGuide](ctx, s.db, id, "purification guide")
}

// GetGuideAndCountUse increments usage_count in place, then reads the row
func (s *PostgresStore) GetGuideAndCountUse(ctx context.Context, id string) (*model.PurificationGuide, error) {
	done := prometheus.TrackDBOperation("update")
	res := s.db.WithContext(ctx).Model(&model.PurificationGuide{}).
		Where("id = ? AND is_active = ?", id, true).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1))
	done(time.Now())
	if res.Error != nil {
		return nil, translate(res.Error, "failed to count guide use")
	}
	if res.RowsAffected == 0 {
		return nil, eris.Wrap(ErrNotFound, "failed to count guide use")
	}

	return s.GetGuide(ctx, id)
}

func (s *PostgresStore) UpdateGuide(ctx context.Context, guide *model.PurificationGuide) error {
	return updateOwned(ctx, s.db, guide, "created_by", guide.CreatedBy, "purification guide", true, "usage_count", "community_rating")
}

func (s *PostgresStore) DeactivateGuide(ctx context.Context, id, ownerID string, at time.Time) error {
	return deactivate[model.PurificationGuide](ctx, s.db, id, "created_by", ownerID, "purification guide", at)
}

func (s *PostgresStore) ListGuides(ctx context.Context, filter GuideFilter) ([]model.PurificationGuide, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	tx := s.db.WithContext(ctx).Where("is_active = ?", true)
	tx = eq(tx, "method_type", filter.MethodType)
	tx = eq(tx, "difficulty", filter.Difficulty)

	var guides []model.PurificationGuide
	if err := tx.Order("created_at DESC").Limit(limitOrDefault(filter.Limit)).Find(&guides).Error; err != nil {
		return nil, translate(err, "failed to list purification guides")
	}
	return guides, nil
}

func (s *PostgresStore) CountGuides(ctx context.Context) (int64, error) {
	return count(ctx, s.db.Model(&model.PurificationGuide{}).Where("is_active = ?", true), "purification guides")
}
