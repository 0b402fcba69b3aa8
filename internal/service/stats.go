package service

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
)

// CommunityStats is the community summary the machine client reports
type CommunityStats struct {
	TotalUsers         int64            `json:"total_users"`
	TotalResources     int64            `json:"total_resources"`
	AvailableResources int64            `json:"available_resources"`
	NeededResources    int64            `json:"needed_resources"`
	Categories         map[string]int64 `json:"categories"`
}

// WaterStats holds water module totals. SourcesByQuality has every status.
type WaterStats struct {
	TotalSources     int64            `json:"total_sources"`
	SourcesByQuality map[string]int64 `json:"sources_by_quality"`
	ActiveAlerts     int64            `json:"active_alerts"`
	TotalPlans       int64            `json:"total_plans"`
	TotalGuides      int64            `json:"total_guides"`
}

// CommunityStats counts active users and resources. Every category is
// reported, including empty ones.
func (s *Service) CommunityStats(ctx context.Context) (*CommunityStats, error) {
	stats := &CommunityStats{Categories: make(map[string]int64, len(model.ResourceCategories))}

	var err error
	if stats.TotalUsers, err = s.store.CountUsers(ctx); err != nil {
		return nil, eris.Wrap(err, "failed to count users")
	}
	if stats.TotalResources, err = s.store.CountResources(ctx, repository.ResourceFilter{}); err != nil {
		return nil, eris.Wrap(err, "failed to count resources")
	}
	if stats.AvailableResources, err = s.store.CountResources(ctx, repository.ResourceFilter{Type: "available"}); err != nil {
		return nil, eris.Wrap(err, "failed to count available resources")
	}
	if stats.NeededResources, err = s.store.CountResources(ctx, repository.ResourceFilter{Type: "needed"}); err != nil {
		return nil, eris.Wrap(err, "failed to count needed resources")
	}

	byCategory, err := s.store.CountResourcesByCategory(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "failed to count resources by category")
	}
	for _, c := range model.ResourceCategories {
		stats.Categories[c] = byCategory[c]
	}
	return stats, nil
}

// WaterStats summarizes the water module
func (s *Service) WaterStats(ctx context.Context) (*WaterStats, error) {
	stats := &WaterStats{SourcesByQuality: make(map[string]int64, len(model.QualityStatuses))}

	var err error
	if stats.TotalSources, err = s.store.CountWaterSources(ctx, repository.WaterSourceFilter{}); err != nil {
		return nil, eris.Wrap(err, "failed to count water sources")
	}
	for _, q := range model.QualityStatuses {
		n, err := s.store.CountWaterSources(ctx, repository.WaterSourceFilter{QualityStatus: q})
		if err != nil {
			return nil, eris.Wrapf(err, "failed to count %s water sources", q)
		}
		stats.SourcesByQuality[q] = n
	}
	if stats.ActiveAlerts, err = s.store.CountAlerts(ctx, repository.AlertFilter{ActiveAt: s.now()}); err != nil {
		return nil, eris.Wrap(err, "failed to count water alerts")
	}
	if stats.TotalPlans, err = s.store.CountPlans(ctx); err != nil {
		return nil, eris.Wrap(err, "failed to count plans")
	}
	if stats.TotalGuides, err = s.store.CountGuides(ctx); err != nil {
		return nil, eris.Wrap(err, "failed to count guides")
	}
	return stats, nil
}
