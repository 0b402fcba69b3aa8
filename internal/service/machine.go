package service

import (
	"context"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

// The machine client authenticates with a shared key, so it names the acting
// user in each payload. These variants check that user exists and cap search
// results at MachineSearchLimit.

// GetUser loads the user a machine payload names
func (s *Service) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.lookupUser(ctx, id)
}

// SearchResources is ListResources capped at MachineSearchLimit
func (s *Service) SearchResources(ctx context.Context, q ResourceQuery) ([]model.Resource, error) {
	return s.listResources(ctx, q, MachineSearchLimit)
}

// CreateResourceFor creates a resource owned by an existing user
func (s *Service) CreateResourceFor(ctx context.Context, userID string, in ResourceInput) (*model.Resource, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.CreateResource(ctx, user.ID, in)
}

// SearchWaterSources is ListWaterSources capped at MachineSearchLimit
func (s *Service) SearchWaterSources(ctx context.Context, q WaterSourceQuery) ([]model.WaterSource, error) {
	return s.listWaterSources(ctx, q, MachineSearchLimit)
}

// CreateWaterSourceFor adds a water source on behalf of an existing user
func (s *Service) CreateWaterSourceFor(ctx context.Context, userID string, in WaterSourceInput) (*model.WaterSource, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.CreateWaterSource(ctx, user.ID, in)
}

// ReportQualityFor files a quality report on behalf of an existing user
func (s *Service) ReportQualityFor(ctx context.Context, userID, sourceID string, in QualityReportInput) (*model.QualityReport, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sourceID == "" {
		return nil, badRequest("water_source_id required in data")
	}
	return s.ReportQuality(ctx, user.ID, sourceID, in)
}

// ActiveAlerts lists unexpired alerts for the machine client
func (s *Service) ActiveAlerts(ctx context.Context, q AlertQuery) ([]model.WaterAlert, error) {
	return s.listAlerts(ctx, q, MachineSearchLimit)
}

// CreateAlertFor raises an alert on behalf of an existing user
func (s *Service) CreateAlertFor(ctx context.Context, userID string, in AlertInput) (*model.WaterAlert, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.CreateAlert(ctx, user.ID, in)
}

// SearchGuides is ListGuides capped at MachineSearchLimit
func (s *Service) SearchGuides(ctx context.Context, q GuideQuery) ([]model.PurificationGuide, error) {
	return s.listGuides(ctx, q, MachineSearchLimit)
}

// LogUsageFor logs a day of usage for an existing user
func (s *Service) LogUsageFor(ctx context.Context, userID string, in UsageInput) (*model.WaterUsage, error) {
	user, err := s.lookupUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.LogUsage(ctx, user.ID, in)
}
