package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/geo"
	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// WaterSourceInput is the editable part of a water source. Accessibility
// defaults to public.
type WaterSourceInput struct {
	Name           string          `json:"name" validate:"required"`
	Description    string          `json:"description"`
	Type           string          `json:"type" validate:"oneof=well spring tap river lake rainwater other"`
	Location       *model.Location `json:"location,omitempty"`
	Address        *string         `json:"address,omitempty"`
	Accessibility  string          `json:"accessibility" validate:"omitempty,oneof=public restricted private"`
	OperatingHours *string         `json:"operating_hours,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
}

// WaterSourceQuery is a water source search
type WaterSourceQuery struct {
	Type          string   `json:"type,omitempty" query:"type"`
	Accessibility string   `json:"accessibility,omitempty" query:"accessibility"`
	QualityStatus string   `json:"quality_status,omitempty" query:"quality_status"`
	Lat           *float64 `json:"lat,omitempty" query:"lat" validate:"omitempty,latitude"`
	Lng           *float64 `json:"lng,omitempty" query:"lng" validate:"omitempty,longitude"`
	Radius        *float64 `json:"radius,omitempty" query:"radius"`
}

// QualityReportInput is one water test result
type QualityReportInput struct {
	OverallRating string   `json:"overall_rating" validate:"oneof=safe caution unsafe"`
	PHLevel       *float64 `json:"ph_level,omitempty" validate:"omitempty,gte=0,lte=14"`
	Turbidity     *float64 `json:"turbidity,omitempty" validate:"omitempty,gte=0"`
	Contaminants  []string `json:"contaminants,omitempty"`
	TestMethod    *string  `json:"test_method,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

func (s *Service) validWaterSource(ctx context.Context, in *WaterSourceInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = s.resolveLocation(ctx, in.Location, in.Address)
	if in.Accessibility == "" {
		in.Accessibility = "public"
	}

	var p problems
	p.add(s.validate.Validate(in))
	p.check(in.Location != nil, "location is required")
	return p.err()
}

// CreateWaterSource maps a new source with unknown quality
func (s *Service) CreateWaterSource(ctx context.Context, ownerID string, in WaterSourceInput) (*model.WaterSource, error) {
	if err := s.validWaterSource(ctx, &in); err != nil {
		return nil, err
	}

	now := s.now()
	source := &model.WaterSource{
		ID:             model.NewID(),
		Name:           in.Name,
		Description:    in.Description,
		Type:           in.Type,
		Location:       *in.Location,
		Address:        in.Address,
		Accessibility:  in.Accessibility,
		QualityStatus:  model.QualityUnknown,
		OperatingHours: in.OperatingHours,
		Notes:          in.Notes,
		AddedBy:        ownerID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateWaterSource(ctx, source); err != nil {
		return nil, eris.Wrap(err, "failed to create water source")
	}

	prometheus.RecordOperation("water_source", "create")
	s.log.Info("Water source created", zap.String("water_source_id", source.ID), zap.String("user_id", ownerID))
	return source, nil
}

// ListWaterSources returns active sources matching q
func (s *Service) ListWaterSources(ctx context.Context, q WaterSourceQuery) ([]model.WaterSource, error) {
	return s.listWaterSources(ctx, q, repository.DefaultListLimit)
}

func (s *Service) listWaterSources(ctx context.Context, q WaterSourceQuery, limit int) ([]model.WaterSource, error) {
	if err := s.check(q); err != nil {
		return nil, err
	}
	near := geo.NewQuery(q.Lat, q.Lng, q.Radius)
	sources, err := s.store.ListWaterSources(ctx, repository.WaterSourceFilter{
		Type:          q.Type,
		Accessibility: q.Accessibility,
		QualityStatus: q.QualityStatus,
		Near:          near,
		Limit:         limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to list water sources")
	}
	return geo.Filter(near, sources), nil
}

// GetWaterSource returns an active source
func (s *Service) GetWaterSource(ctx context.Context, id string) (*model.WaterSource, error) {
	source, err := s.store.GetWaterSource(ctx, id)
	if err != nil {
		return nil, storeError(err, "Water source not found", "failed to get water source")
	}
	return source, nil
}

// UpdateWaterSource replaces the editable fields. Quality status is only
// moved by quality reports.
func (s *Service) UpdateWaterSource(ctx context.Context, ownerID, id string, in WaterSourceInput) (*model.WaterSource, error) {
	const detail = "Water source not found or not owned by user"

	source, err := s.store.GetWaterSource(ctx, id)
	if err != nil {
		return nil, storeError(err, detail, "failed to get water source")
	}
	if source.AddedBy != ownerID {
		return nil, notFound(detail)
	}
	if err := s.validWaterSource(ctx, &in); err != nil {
		return nil, err
	}

	source.Name = in.Name
	source.Description = in.Description
	source.Type = in.Type
	source.Location = *in.Location
	source.Address = in.Address
	source.Accessibility = in.Accessibility
	source.OperatingHours = in.OperatingHours
	source.Notes = in.Notes
	source.UpdatedAt = s.now()

	if err := s.store.UpdateWaterSource(ctx, source); err != nil {
		return nil, storeError(err, detail, "failed to update water source")
	}

	prometheus.RecordOperation("water_source", "update")
	return source, nil
}

// DeleteWaterSource soft-deletes a source ownerID added
func (s *Service) DeleteWaterSource(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeactivateWaterSource(ctx, id, ownerID, s.now()); err != nil {
		return storeError(err, "Water source not found or not owned by user", "failed to delete water source")
	}

	prometheus.RecordOperation("water_source", "delete")
	return nil
}

// ReportQuality files a report against an active source, then moves the
// source's quality status to the report's rating. The two writes are not
// atomic.
func (s *Service) ReportQuality(ctx context.Context, reporterID, sourceID string, in QualityReportInput) (*model.QualityReport, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	if _, err := s.store.GetWaterSource(ctx, sourceID); err != nil {
		return nil, storeError(err, "Water source not found", "failed to get water source")
	}

	contaminants := in.Contaminants
	if contaminants == nil {
		contaminants = []string{}
	}

	now := s.now()
	report := &model.QualityReport{
		ID:            model.NewID(),
		WaterSourceID: sourceID,
		ReporterID:    reporterID,
		OverallRating: in.OverallRating,
		PHLevel:       in.PHLevel,
		Turbidity:     in.Turbidity,
		Contaminants:  contaminants,
		TestMethod:    in.TestMethod,
		Notes:         in.Notes,
		CreatedAt:     now,
	}
	if err := s.store.CreateQualityReport(ctx, report); err != nil {
		return nil, eris.Wrap(err, "failed to create quality report")
	}

	if err := s.store.SetWaterSourceQuality(ctx, sourceID, in.OverallRating, now); err != nil {
		s.log.Error("Quality report stored but source not updated",
			zap.String("report_id", report.ID),
			zap.String("water_source_id", sourceID),
			zap.Error(err))
		return nil, eris.Wrap(err, "failed to update water source quality")
	}

	prometheus.RecordOperation("quality_report", "create")
	return report, nil
}

// ListQualityReports returns a source's reports, newest first
func (s *Service) ListQualityReports(ctx context.Context, sourceID string) ([]model.QualityReport, error) {
	if _, err := s.store.GetWaterSource(ctx, sourceID); err != nil {
		return nil, storeError(err, "Water source not found", "failed to get water source")
	}
	reports, err := s.store.ListQualityReports(ctx, sourceID, repository.DefaultListLimit)
	if err != nil {
		return nil, eris.Wrap(err, "failed to list quality reports")
	}
	return reports, nil
}
