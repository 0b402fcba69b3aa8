package repository

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

// Water sources

func (m *MemoryStore) CreateWaterSource(_ context.Context, source *model.WaterSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sources.put(source.ID, *source)
	return nil
}

func (m *MemoryStore) GetWaterSource(_ context.Context, id string) (*model.WaterSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sources.rows[id]
	if !ok || !s.IsActive {
		return nil, notFound("water source")
	}
	return &s, nil
}

func (m *MemoryStore) UpdateWaterSource(_ context.Context, source *model.WaterSource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sources.rows[source.ID]
	if !ok || !current.IsActive || current.AddedBy != source.AddedBy {
		return eris.Wrap(ErrNotFound, "failed to update water source")
	}
	source.CreatedAt = current.CreatedAt
	m.sources.put(source.ID, *source)
	return nil
}

func (m *MemoryStore) SetWaterSourceQuality(_ context.Context, id, status string, testedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sources.rows[id]
	if !ok || !s.IsActive {
		return eris.Wrap(ErrNotFound, "failed to update water source quality")
	}
	s.QualityStatus = status
	s.LastTestedAt = &testedAt
	s.UpdatedAt = testedAt
	m.sources.put(id, s)
	return nil
}

func (m *MemoryStore) DeactivateWaterSource(_ context.Context, id, ownerID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sources.rows[id]
	if !ok || !s.IsActive || s.AddedBy != ownerID {
		return eris.Wrap(ErrNotFound, "failed to delete water source")
	}
	s.IsActive = false
	s.UpdatedAt = at
	m.sources.put(id, s)
	return nil
}

func waterSourceMatcher(filter WaterSourceFilter) func(model.WaterSource) bool {
	return func(s model.WaterSource) bool {
		return s.IsActive &&
			matches(filter.Type, s.Type) &&
			matches(filter.Accessibility, s.Accessibility) &&
			matches(filter.QualityStatus, s.QualityStatus) &&
			near(filter.Near, s.Location)
	}
}

func (m *MemoryStore) ListWaterSources(_ context.Context, filter WaterSourceFilter) ([]model.WaterSource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sources.newest(waterSourceMatcher(filter), filter.Limit), nil
}

func (m *MemoryStore) CountWaterSources(_ context.Context, filter WaterSourceFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sources.count(waterSourceMatcher(filter)), nil
}

// Quality reports

func (m *MemoryStore) CreateQualityReport(_ context.Context, report *model.QualityReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.reports.put(report.ID, *report)
	return nil
}

func (m *MemoryStore) ListQualityReports(_ context.Context, sourceID string, limit int) ([]model.QualityReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.reports.newest(func(r model.QualityReport) bool {
		return r.WaterSourceID == sourceID
	}, limit), nil
}

// Infrastructure plans

func (m *MemoryStore) CreatePlan(_ context.Context, plan *model.InfrastructurePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.plans.put(plan.ID, *plan)
	return nil
}

func (m *MemoryStore) GetPlan(_ context.Context, id string) (*model.InfrastructurePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.plans.rows[id]
	if !ok || !p.IsActive {
		return nil, notFound("infrastructure plan")
	}
	return &p, nil
}

func (m *MemoryStore) UpdatePlan(_ context.Context, plan *model.InfrastructurePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.plans.rows[plan.ID]
	if !ok || !current.IsActive || current.CreatedBy != plan.CreatedBy {
		return eris.Wrap(ErrNotFound, "failed to update infrastructure plan")
	}
	plan.CreatedAt = current.CreatedAt
	m.plans.put(plan.ID, *plan)
	return nil
}

func (m *MemoryStore) DeactivatePlan(_ context.Context, id, ownerID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.plans.rows[id]
	if !ok || !p.IsActive || p.CreatedBy != ownerID {
		return eris.Wrap(ErrNotFound, "failed to delete infrastructure plan")
	}
	p.IsActive = false
	p.UpdatedAt = at
	m.plans.put(id, p)
	return nil
}

func (m *MemoryStore) ListPlans(_ context.Context, filter PlanFilter) ([]model.InfrastructurePlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.plans.newest(func(p model.InfrastructurePlan) bool {
		return p.IsActive &&
			matches(filter.PlanType, p.PlanType) &&
			matches(filter.FundingStatus, p.FundingStatus) &&
			near(filter.Near, p.Location)
	}, filter.Limit), nil
}

func (m *MemoryStore) CountPlans(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.plans.count(func(p model.InfrastructurePlan) bool { return p.IsActive }), nil
}

// Purification guides

func (m *MemoryStore) CreateGuide(_ context.Context, guide *model.PurificationGuide) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.guides.put(guide.ID, *guide)
	return nil
}

func (m *MemoryStore) GetGuide(_ context.Context, id string) (*model.PurificationGuide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.guides.rows[id]
	if !ok || !g.IsActive {
		return nil, notFound("purification guide")
	}
	return &g, nil
}

func (m *MemoryStore) GetGuideAndCountUse(_ context.Context, id string) (*model.PurificationGuide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.guides.rows[id]
	if !ok || !g.IsActive {
		return nil, notFound("purification guide")
	}
	g.UsageCount++
	m.guides.put(id, g)
	return &g, nil
}

func (m *MemoryStore) UpdateGuide(_ context.Context, guide *model.PurificationGuide) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.guides.rows[guide.ID]
	if !ok || !current.IsActive || current.CreatedBy != guide.CreatedBy {
		return eris.Wrap(ErrNotFound, "failed to update purification guide")
	}
	guide.CreatedAt = current.CreatedAt
	m.guides.put(guide.ID, *guide)
	return nil
}

func (m *MemoryStore) DeactivateGuide(_ context.Context, id, ownerID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.guides.rows[id]
	if !ok || !g.IsActive || g.CreatedBy != ownerID {
		return eris.Wrap(ErrNotFound, "failed to delete purification guide")
	}
	g.IsActive = false
	g.UpdatedAt = at
	m.guides.put(id, g)
	return nil
}

func (m *MemoryStore) ListGuides(_ context.Context, filter GuideFilter) ([]model.PurificationGuide, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.guides.newest(func(g model.PurificationGuide) bool {
		return g.IsActive &&
			matches(filter.MethodType, g.MethodType) &&
			matches(filter.Difficulty, g.Difficulty)
	}, filter.Limit), nil
}

func (m *MemoryStore) CountGuides(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.guides.count(func(g model.PurificationGuide) bool { return g.IsActive }), nil
}

// Alerts

func (m *MemoryStore) CreateAlert(_ context.Context, alert *model.WaterAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alerts.put(alert.ID, *alert)
	return nil
}

func (m *MemoryStore) GetAlert(_ context.Context, id string) (*model.WaterAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.alerts.rows[id]
	if !ok {
		return nil, notFound("water alert")
	}
	return &a, nil
}

func (m *MemoryStore) UpdateAlert(_ context.Context, alert *model.WaterAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.alerts.rows[alert.ID]
	if !ok || current.CreatedBy != alert.CreatedBy {
		return eris.Wrap(ErrNotFound, "failed to update water alert")
	}
	alert.CreatedAt = current.CreatedAt
	m.alerts.put(alert.ID, *alert)
	return nil
}

func alertMatcher(filter AlertFilter) func(model.WaterAlert) bool {
	return func(a model.WaterAlert) bool {
		if !filter.ActiveAt.IsZero() && a.ExpiredAt(filter.ActiveAt) {
			return false
		}
		return matches(filter.AlertType, a.AlertType) &&
			matches(filter.Severity, a.Severity) &&
			near(filter.Near, a.Location)
	}
}

func (m *MemoryStore) ListAlerts(_ context.Context, filter AlertFilter) ([]model.WaterAlert, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.alerts.newest(alertMatcher(filter), filter.Limit), nil
}

func (m *MemoryStore) CountAlerts(_ context.Context, filter AlertFilter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.alerts.count(alertMatcher(filter)), nil
}

// Usage

func usageKey(userID, date string) string {
	return userID + "|" + date
}

// UpsertUsage keys rows by (user, date) so a second write replaces the first
func (m *MemoryStore) UpsertUsage(_ context.Context, usage *model.WaterUsage) (*model.WaterUsage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := usageKey(usage.UserID, usage.Date)
	stored := *usage
	if current, ok := m.usage.rows[key]; ok {
		stored.ID = current.ID
		stored.CreatedAt = current.CreatedAt
	}
	m.usage.put(key, stored)
	return &stored, nil
}

func (m *MemoryStore) ListUsage(_ context.Context, userID, since string) ([]model.WaterUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.usage.newest(func(u model.WaterUsage) bool {
		return u.UserID == userID && u.Date >= since
	}, DefaultListLimit)
	sortUsageNewestFirst(rows)
	return rows, nil
}

func (m *MemoryStore) AverageDailyUsage(_ context.Context, since string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total float64
	var n int
	for _, u := range m.usage.rows {
		if u.Date >= since {
			total += u.TotalLiters
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return total / float64(n), nil
}

// Geocode cache

func (m *MemoryStore) GetGeocode(_ context.Context, hash string) (*model.GeocodeCacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.geocodes[hash]
	if !ok {
		return nil, notFound("geocode cache entry")
	}
	return &e, nil
}

func (m *MemoryStore) PutGeocode(_ context.Context, entry *model.GeocodeCacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.geocodes[entry.AddressHash] = *entry
	return nil
}
