package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/pkg/geocode"
)

// GeocodeCache adapts a GeocodeCacheRepository to geocode.Cache
type GeocodeCache struct {
	repo GeocodeCacheRepository
	now  func() time.Time
}

func NewGeocodeCache(repo GeocodeCacheRepository) *GeocodeCache {
	return &GeocodeCache{repo: repo, now: time.Now}
}

var _ geocode.Cache = (*GeocodeCache)(nil)

// Get returns the stored answer with its age. Expiry is the geocoder's call.
func (c *GeocodeCache) Get(ctx context.Context, key string) (*geocode.CachedResult, error) {
	entry, err := c.repo.GetGeocode(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, geocode.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return &geocode.CachedResult{
		Result:   geocode.Result{Latitude: entry.Lat, Longitude: entry.Lng, Matched: entry.Matched},
		CachedAt: entry.CachedAt,
	}, nil
}

// Set stores result, replacing any older answer for key
func (c *GeocodeCache) Set(ctx context.Context, key, address string, result *geocode.Result) error {
	return c.repo.PutGeocode(ctx, &model.GeocodeCacheEntry{
		AddressHash: key,
		Address:     address,
		Lat:         result.Latitude,
		Lng:         result.Longitude,
		Matched:     result.Matched,
		CachedAt:    c.now().UTC(),
	})
}
