package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/geo"
	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// PlanInput is the editable part of an infrastructure plan
type PlanInput struct {
	Title         string          `json:"title" validate:"required"`
	Description   string          `json:"description"`
	PlanType      string          `json:"plan_type" validate:"oneof=well purification_system pipeline storage rainwater_harvesting other"`
	Location      *model.Location `json:"location,omitempty"`
	Address       *string         `json:"address,omitempty"`
	EstimatedCost *float64        `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	Beneficiaries *int            `json:"beneficiaries,omitempty" validate:"omitempty,gte=0"`
	Timeline      *string         `json:"timeline,omitempty"`
}

// PlanQuery is an infrastructure plan search
type PlanQuery struct {
	PlanType      string   `json:"plan_type,omitempty" query:"plan_type"`
	FundingStatus string   `json:"funding_status,omitempty" query:"funding_status"`
	Lat           *float64 `json:"lat,omitempty" query:"lat" validate:"omitempty,latitude"`
	Lng           *float64 `json:"lng,omitempty" query:"lng" validate:"omitempty,longitude"`
	Radius        *float64 `json:"radius,omitempty" query:"radius"`
}

func (s *Service) validPlan(ctx context.Context, in *PlanInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = s.resolveLocation(ctx, in.Location, in.Address)

	var p problems
	p.add(s.validate.Validate(in))
	p.check(in.Location != nil, "location is required")
	return p.err()
}

// CreatePlan proposes a plan. Funding status always starts at "seeking".
func (s *Service) CreatePlan(ctx context.Context, ownerID string, in PlanInput) (*model.InfrastructurePlan, error) {
	if err := s.validPlan(ctx, &in); err != nil {
		return nil, err
	}

	now := s.now()
	plan := &model.InfrastructurePlan{
		ID:            model.NewID(),
		Title:         in.Title,
		Description:   in.Description,
		PlanType:      in.PlanType,
		Location:      *in.Location,
		EstimatedCost: in.EstimatedCost,
		Beneficiaries: in.Beneficiaries,
		Timeline:      in.Timeline,
		FundingStatus: model.FundingSeeking,
		CreatedBy:     ownerID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, eris.Wrap(err, "failed to create infrastructure plan")
	}

	prometheus.RecordOperation("infrastructure_plan", "create")
	return plan, nil
}

// ListPlans returns active plans matching q
func (s *Service) ListPlans(ctx context.Context, q PlanQuery) ([]model.InfrastructurePlan, error) {
	if err := s.check(q); err != nil {
		return nil, err
	}
	near := geo.NewQuery(q.Lat, q.Lng, q.Radius)
	plans, err := s.store.ListPlans(ctx, repository.PlanFilter{
		PlanType:      q.PlanType,
		FundingStatus: q.FundingStatus,
		Near:          near,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to list infrastructure plans")
	}
	return geo.Filter(near, plans), nil
}

// GetPlan returns an active plan
func (s *Service) GetPlan(ctx context.Context, id string) (*model.InfrastructurePlan, error) {
	plan, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return nil, storeError(err, "Infrastructure plan not found", "failed to get infrastructure plan")
	}
	return plan, nil
}

// UpdatePlan replaces the editable fields. Funding status is not editable.
func (s *Service) UpdatePlan(ctx context.Context, ownerID, id string, in PlanInput) (*model.InfrastructurePlan, error) {
	const detail = "Infrastructure plan not found or not owned by user"

	plan, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return nil, storeError(err, detail, "failed to get infrastructure plan")
	}
	if plan.CreatedBy != ownerID {
		return nil, notFound(detail)
	}
	if err := s.validPlan(ctx, &in); err != nil {
		return nil, err
	}

	plan.Title = in.Title
	plan.Description = in.Description
	plan.PlanType = in.PlanType
	plan.Location = *in.Location
	plan.EstimatedCost = in.EstimatedCost
	plan.Beneficiaries = in.Beneficiaries
	plan.Timeline = in.Timeline
	plan.UpdatedAt = s.now()

	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, storeError(err, detail, "failed to update infrastructure plan")
	}

	prometheus.RecordOperation("infrastructure_plan", "update")
	return plan, nil
}

// DeletePlan soft-deletes a plan ownerID created
func (s *Service) DeletePlan(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeactivatePlan(ctx, id, ownerID, s.now()); err != nil {
		return storeError(err, "Infrastructure plan not found or not owned by user", "failed to delete infrastructure plan")
	}

	prometheus.RecordOperation("infrastructure_plan", "delete")
	return nil
}
