package service

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

// Geocode resolves address to a point or fails with "Address not found"
func (s *Service) Geocode(ctx context.Context, address string) (*model.Location, error) {
	if strings.TrimSpace(address) == "" {
		return nil, invalid("address is required")
	}
	result, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, eris.Wrap(err, "failed to geocode address")
	}
	if !result.Matched {
		return nil, notFound("Address not found")
	}
	return &model.Location{Lat: result.Latitude, Lng: result.Longitude}, nil
}

// resolveLocation returns loc, or geocodes address when loc is missing. A
// geocoding miss leaves the location empty for the validator to reject.
func (s *Service) resolveLocation(ctx context.Context, loc *model.Location, address *string) *model.Location {
	if loc != nil || address == nil || strings.TrimSpace(*address) == "" {
		return loc
	}
	found, err := s.Geocode(ctx, *address)
	if err != nil {
		return nil
	}
	return found
}
