package repository

import (
	"context"
	"time"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) CreatePlan(ctx context.Context, plan *model.InfrastructurePlan) error {
	return insert(ctx, s.db, plan, "infrastructure plan")
}

func (s *PostgresStore) GetPlan(ctx context.Context, id string) (*model.InfrastructurePlan, error) {
	return findActive[model.InfrastructurePlan](ctx, s.db, id, "infrastructure plan")
}

func (s *PostgresStore) UpdatePlan(ctx context.Context, plan *model.InfrastructurePlan) error {
	return updateOwned(ctx, s.db, plan, "created_by", plan.CreatedBy, "infrastructure plan", true, "funding_status")
}

func (s *PostgresStore) DeactivatePlan(ctx context.Context, id, ownerID string, at time.Time) error {
	return deactivate[model.InfrastructurePlan](ctx, s.db, id, "created_by", ownerID, "infrastructure plan", at)
}

func (s *PostgresStore) ListPlans(ctx context.Context, filter PlanFilter) ([]model.InfrastructurePlan, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	tx := s.db.WithContext(ctx).Where("is_active = ?", true)
	tx = eq(tx, "plan_type", filter.PlanType)
	tx = eq(tx, "funding_status", filter.FundingStatus)
	tx = nearby(tx, filter.Near, "location_lat", "location_lng")

	var plans []model.InfrastructurePlan
	if err := tx.Order("created_at DESC").Limit(limitOrDefault(filter.Limit)).Find(&plans).Error; err != nil {
		return nil, translate(err, "failed to list infrastructure plans")
	}
	return plans, nil
}

func (s *PostgresStore) CountPlans(ctx context.Context) (int64, error) {
	return count(ctx, s.db.Model(&model.InfrastructurePlan{}).Where("is_active = ?", true), "infrastructure plans")
}
