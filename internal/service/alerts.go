package service

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/geo"
	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// AlertInput is the editable part of a water alert. RadiusKm defaults to
// model.DefaultAlertRadiusKm.
type AlertInput struct {
	Title             string          `json:"title" validate:"required"`
	Description       string          `json:"description"`
	AlertType         string          `json:"alert_type" validate:"oneof=contamination shortage outage infrastructure other"`
	Severity          string          `json:"severity" validate:"oneof=low medium high critical"`
	Location          *model.Location `json:"location,omitempty"`
	Address           *string         `json:"address,omitempty"`
	RadiusKm          *float64        `json:"radius_km,omitempty" validate:"omitempty,gt=0"`
	AffectedSourceIDs []string        `json:"affected_source_ids,omitempty"`
	ExpiresAt         *time.Time      `json:"expires_at,omitempty"`
}

// AlertQuery is a water alert search
type AlertQuery struct {
	AlertType string   `json:"alert_type,omitempty" query:"alert_type"`
	Severity  string   `json:"severity,omitempty" query:"severity"`
	Lat       *float64 `json:"lat,omitempty" query:"lat" validate:"omitempty,latitude"`
	Lng       *float64 `json:"lng,omitempty" query:"lng" validate:"omitempty,longitude"`
	Radius    *float64 `json:"radius,omitempty" query:"radius"`
}

func (s *Service) validAlert(ctx context.Context, in *AlertInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = s.resolveLocation(ctx, in.Location, in.Address)
	if in.RadiusKm == nil {
		r := model.DefaultAlertRadiusKm
		in.RadiusKm = &r
	}
	if in.AffectedSourceIDs == nil {
		in.AffectedSourceIDs = []string{}
	}

	var p problems
	p.add(s.validate.Validate(in))
	p.check(in.Location != nil, "location is required")
	return p.err()
}

// CreateAlert raises an unverified alert around a location
func (s *Service) CreateAlert(ctx context.Context, ownerID string, in AlertInput) (*model.WaterAlert, error) {
	if err := s.validAlert(ctx, &in); err != nil {
		return nil, err
	}

	now := s.now()
	alert := &model.WaterAlert{
		ID:                model.NewID(),
		Title:             in.Title,
		Description:       in.Description,
		AlertType:         in.AlertType,
		Severity:          in.Severity,
		Location:          *in.Location,
		RadiusKm:          *in.RadiusKm,
		AffectedSourceIDs: in.AffectedSourceIDs,
		ExpiresAt:         in.ExpiresAt,
		CreatedBy:         ownerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.store.CreateAlert(ctx, alert); err != nil {
		return nil, eris.Wrap(err, "failed to create water alert")
	}

	prometheus.RecordOperation("water_alert", "create")
	s.log.Info("Water alert raised",
		zap.String("alert_id", alert.ID),
		zap.String("severity", alert.Severity),
		zap.String("user_id", ownerID))
	return alert, nil
}

// ListAlerts returns alerts that have not expired yet
func (s *Service) ListAlerts(ctx context.Context, q AlertQuery) ([]model.WaterAlert, error) {
	return s.listAlerts(ctx, q, repository.DefaultListLimit)
}

func (s *Service) listAlerts(ctx context.Context, q AlertQuery, limit int) ([]model.WaterAlert, error) {
	if err := s.check(q); err != nil {
		return nil, err
	}
	near := geo.NewQuery(q.Lat, q.Lng, q.Radius)
	alerts, err := s.store.ListAlerts(ctx, repository.AlertFilter{
		AlertType: q.AlertType,
		Severity:  q.Severity,
		Near:      near,
		ActiveAt:  s.now(),
		Limit:     limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to list water alerts")
	}
	return geo.Filter(near, alerts), nil
}

// GetAlert returns the alert even when it has expired
func (s *Service) GetAlert(ctx context.Context, id string) (*model.WaterAlert, error) {
	alert, err := s.store.GetAlert(ctx, id)
	if err != nil {
		return nil, storeError(err, "Water alert not found", "failed to get water alert")
	}
	return alert, nil
}

// UpdateAlert replaces the editable fields. Verification is not editable.
func (s *Service) UpdateAlert(ctx context.Context, ownerID, id string, in AlertInput) (*model.WaterAlert, error) {
	const detail = "Water alert not found or not owned by user"

	alert, err := s.store.GetAlert(ctx, id)
	if err != nil {
		return nil, storeError(err, detail, "failed to get water alert")
	}
	if alert.CreatedBy != ownerID {
		return nil, notFound(detail)
	}
	if err := s.validAlert(ctx, &in); err != nil {
		return nil, err
	}

	alert.Title = in.Title
	alert.Description = in.Description
	alert.AlertType = in.AlertType
	alert.Severity = in.Severity
	alert.Location = *in.Location
	alert.RadiusKm = *in.RadiusKm
	alert.AffectedSourceIDs = in.AffectedSourceIDs
	alert.ExpiresAt = in.ExpiresAt
	alert.UpdatedAt = s.now()

	if err := s.store.UpdateAlert(ctx, alert); err != nil {
		return nil, storeError(err, detail, "failed to update water alert")
	}

	prometheus.RecordOperation("water_alert", "update")
	return alert, nil
}
