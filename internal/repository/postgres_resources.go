package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

func (s *PostgresStore) CreateResource(ctx context.Context, resource *model.Resource) error {
	return insert(ctx, s.db, resource, "resource")
}

func (s *PostgresStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	return findActive[model.Resource](ctx, s.db, id, "resource")
}

func (s *PostgresStore) UpdateResource(ctx context.Context, resource *model.Resource) error {
	return updateOwned(ctx, s.db, resource, "user_id", resource.UserID, "resource", true)
}

func (s *PostgresStore) DeactivateResource(ctx context.Context, id, ownerID string, at time.Time) error {
	return deactivate[model.Resource](ctx, s.db, id, "user_id", ownerID, "resource", at)
}

func (s *PostgresStore) resourceQuery(filter ResourceFilter) *gorm.DB {
	tx := s.db.Model(&model.Resource{}).Where("is_active = ?", true)
	tx = eq(tx, "category", filter.Category)
	tx = eq(tx, "type", filter.Type)
	return nearby(tx, filter.Near, "location_lat", "location_lng")
}

func (s *PostgresStore) ListResources(ctx context.Context, filter ResourceFilter) ([]model.Resource, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var resources []model.Resource
	err := s.resourceQuery(filter).WithContext(ctx).
		Order("created_at DESC").
		Limit(limitOrDefault(filter.Limit)).
		Find(&resources).Error
	if err != nil {
		return nil, translate(err, "failed to list resources")
	}
	return resources, nil
}

func (s *PostgresStore) CountResources(ctx context.Context, filter ResourceFilter) (int64, error) {
	return count(ctx, s.resourceQuery(filter), "resources")
}

// CountResourcesByCategory counts active resources per category
func (s *PostgresStore) CountResourcesByCategory(ctx context.Context) (map[string]int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var rows []struct {
		Category string
		Total    int64
	}
	err := s.db.WithContext(ctx).Model(&model.Resource{}).
		Select("category, COUNT(*) AS total").
		Where("is_active = ?", true).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "failed to count resources by category")
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Category] = r.Total
	}
	return out, nil
}
