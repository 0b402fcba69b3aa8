package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// GuideInput is the editable part of a purification guide
type GuideInput struct {
	Title         string   `json:"title" validate:"required"`
	Description   string   `json:"description"`
	MethodType    string   `json:"method_type" validate:"oneof=boiling filtration chemical solar distillation other"`
	Steps         []string `json:"steps" validate:"min=1"`
	Materials     []string `json:"materials"`
	Difficulty    string   `json:"difficulty" validate:"oneof=easy medium hard"`
	TimeRequired  *string  `json:"time_required,omitempty"`
	Effectiveness *string  `json:"effectiveness,omitempty"`
}

// GuideQuery is a purification guide search
type GuideQuery struct {
	MethodType string `json:"method_type,omitempty" query:"method_type"`
	Difficulty string `json:"difficulty,omitempty" query:"difficulty"`
}

func (s *Service) validGuide(in *GuideInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Steps == nil {
		in.Steps = []string{}
	}
	if in.Materials == nil {
		in.Materials = []string{}
	}
	return s.check(in)
}

// CreateGuide publishes a guide with zero uses and the default rating
func (s *Service) CreateGuide(ctx context.Context, ownerID string, in GuideInput) (*model.PurificationGuide, error) {
	if err := s.validGuide(&in); err != nil {
		return nil, err
	}

	now := s.now()
	guide := &model.PurificationGuide{
		ID:            model.NewID(),
		Title:         in.Title,
		Description:   in.Description,
		MethodType:    in.MethodType,
		Steps:         in.Steps,
		Materials:     in.Materials,
		Difficulty:    in.Difficulty,
		TimeRequired:  in.TimeRequired,
		Effectiveness: in.Effectiveness,
		CreatedBy:     ownerID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateGuide(ctx, guide); err != nil {
		return nil, eris.Wrap(err, "failed to create purification guide")
	}

	prometheus.RecordOperation("purification_guide", "create")
	return guide, nil
}

// ListGuides returns active guides matching q
func (s *Service) ListGuides(ctx context.Context, q GuideQuery) ([]model.PurificationGuide, error) {
	return s.listGuides(ctx, q, repository.DefaultListLimit)
}

func (s *Service) listGuides(ctx context.Context, q GuideQuery, limit int) ([]model.PurificationGuide, error) {
	guides, err := s.store.ListGuides(ctx, repository.GuideFilter{
		MethodType: q.MethodType,
		Difficulty: q.Difficulty,
		Limit:      limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to list purification guides")
	}
	return guides, nil
}

// GetGuide counts one more use of the guide and returns it
func (s *Service) GetGuide(ctx context.Context, id string) (*model.PurificationGuide, error) {
	guide, err := s.store.GetGuideAndCountUse(ctx, id)
	if err != nil {
		return nil, storeError(err, "Purification guide not found", "failed to get purification guide")
	}
	return guide, nil
}

// UpdateGuide replaces the editable fields. Usage count and rating are kept.
func (s *Service) UpdateGuide(ctx context.Context, ownerID, id string, in GuideInput) (*model.PurificationGuide, error) {
	const detail = "Purification guide not found or not owned by user"

	guide, err := s.store.GetGuide(ctx, id)
	if err != nil {
		return nil, storeError(err, detail, "failed to get purification guide")
	}
	if guide.CreatedBy != ownerID {
		return nil, notFound(detail)
	}
	if err := s.validGuide(&in); err != nil {
		return nil, err
	}

	guide.Title = in.Title
	guide.Description = in.Description
	guide.MethodType = in.MethodType
	guide.Steps = in.Steps
	guide.Materials = in.Materials
	guide.Difficulty = in.Difficulty
	guide.TimeRequired = in.TimeRequired
	guide.Effectiveness = in.Effectiveness
	guide.UpdatedAt = s.now()

	if err := s.store.UpdateGuide(ctx, guide); err != nil {
		return nil, storeError(err, detail, "failed to update purification guide")
	}

	prometheus.RecordOperation("purification_guide", "update")
	return guide, nil
}

// DeleteGuide soft-deletes a guide ownerID wrote
func (s *Service) DeleteGuide(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeactivateGuide(ctx, id, ownerID, s.now()); err != nil {
		return storeError(err, "Purification guide not found or not owned by user", "failed to delete purification guide")
	}

	prometheus.RecordOperation("purification_guide", "delete")
	return nil
}
