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

// ResourceInput is the editable part of a resource. Address is geocoded
// when Location is missing.
type ResourceInput struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"oneof=food water tools skills shelter medical other"`
	Type        string          `json:"type" validate:"oneof=available needed"`
	Location    *model.Location `json:"location,omitempty"`
	Address     *string         `json:"address,omitempty"`
	Quantity    *string         `json:"quantity,omitempty"`
	ContactInfo *string         `json:"contact_info,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
}

// ResourceQuery is a resource search. Lat/Lng/Radius feed geo.NewQuery.
type ResourceQuery struct {
	Category string   `json:"category,omitempty" query:"category"`
	Type     string   `json:"type,omitempty" query:"type"`
	Lat      *float64 `json:"lat,omitempty" query:"lat" validate:"omitempty,latitude"`
	Lng      *float64 `json:"lng,omitempty" query:"lng" validate:"omitempty,longitude"`
	Radius   *float64 `json:"radius,omitempty" query:"radius"`
}

func (s *Service) validResource(ctx context.Context, in *ResourceInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = s.resolveLocation(ctx, in.Location, in.Address)

	var p problems
	p.add(s.validate.Validate(in))
	p.check(in.Location != nil, "location is required")
	return p.err()
}

// CreateResource lists a new resource owned by ownerID
func (s *Service) CreateResource(ctx context.Context, ownerID string, in ResourceInput) (*model.Resource, error) {
	if err := s.validResource(ctx, &in); err != nil {
		return nil, err
	}

	now := s.now()
	resource := &model.Resource{
		ID:          model.NewID(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Type:        in.Type,
		UserID:      ownerID,
		Location:    *in.Location,
		Address:     in.Address,
		Quantity:    in.Quantity,
		ContactInfo: in.ContactInfo,
		ExpiryDate:  in.ExpiryDate,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateResource(ctx, resource); err != nil {
		return nil, eris.Wrap(err, "failed to create resource")
	}

	prometheus.RecordOperation("resource", "create")
	s.log.Info("Resource created", zap.String("resource_id", resource.ID), zap.String("user_id", ownerID))
	return resource, nil
}

// ListResources returns active resources matching q, newest first
func (s *Service) ListResources(ctx context.Context, q ResourceQuery) ([]model.Resource, error) {
	return s.listResources(ctx, q, repository.DefaultListLimit)
}

func (s *Service) listResources(ctx context.Context, q ResourceQuery, limit int) ([]model.Resource, error) {
	if err := s.check(q); err != nil {
		return nil, err
	}
	near := geo.NewQuery(q.Lat, q.Lng, q.Radius)
	resources, err := s.store.ListResources(ctx, repository.ResourceFilter{
		Category: q.Category,
		Type:     q.Type,
		Near:     near,
		Limit:    limit,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failed to list resources")
	}
	return geo.Filter(near, resources), nil
}

// GetResource returns an active resource
func (s *Service) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	resource, err := s.store.GetResource(ctx, id)
	if err != nil {
		return nil, storeError(err, "Resource not found", "failed to get resource")
	}
	return resource, nil
}

// UpdateResource replaces the editable fields of a resource ownerID owns
func (s *Service) UpdateResource(ctx context.Context, ownerID, id string, in ResourceInput) (*model.Resource, error) {
	const detail = "Resource not found or not owned by user"

	resource, err := s.store.GetResource(ctx, id)
	if err != nil {
		return nil, storeError(err, detail, "failed to get resource")
	}
	if resource.UserID != ownerID {
		return nil, notFound(detail)
	}
	if err := s.validResource(ctx, &in); err != nil {
		return nil, err
	}

	resource.Title = in.Title
	resource.Description = in.Description
	resource.Category = in.Category
	resource.Type = in.Type
	resource.Location = *in.Location
	resource.Address = in.Address
	resource.Quantity = in.Quantity
	resource.ContactInfo = in.ContactInfo
	resource.ExpiryDate = in.ExpiryDate
	resource.UpdatedAt = s.now()

	if err := s.store.UpdateResource(ctx, resource); err != nil {
		return nil, storeError(err, detail, "failed to update resource")
	}

	prometheus.RecordOperation("resource", "update")
	return resource, nil
}

// DeleteResource soft-deletes a resource ownerID owns
func (s *Service) DeleteResource(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeactivateResource(ctx, id, ownerID, s.now()); err != nil {
		return storeError(err, "Resource not found or not owned by user", "failed to delete resource")
	}

	prometheus.RecordOperation("resource", "delete")
	s.log.Info("Resource deleted", zap.String("resource_id", id), zap.String("user_id", ownerID))
	return nil
}
