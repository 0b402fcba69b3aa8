// Package geo holds the distance math behind proximity search.
package geo

import (
	"math"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

const (
	// EarthRadiusKm is the mean earth radius used by HaversineKm
	EarthRadiusKm = 6371.0
	// KmPerDegree is the flat-earth scale of one degree
	KmPerDegree = 111.0
	// DefaultRadiusKm applies when a caller gives a center without a radius
	DefaultRadiusKm = 10.0
)

// Query is a proximity search: everything within RadiusKm of Center
type Query struct {
	Center   model.Location
	RadiusKm float64
}

// NewQuery builds a query from optional request values. It returns nil when
// lat or lng is missing, meaning "no proximity filter".
func NewQuery(lat, lng, radius *float64) *Query {
	if lat == nil || lng == nil {
		return nil
	}
	r := DefaultRadiusKm
	if radius != nil && *radius > 0 {
		r = *radius
	}
	return &Query{Center: model.Location{Lat: *lat, Lng: *lng}, RadiusKm: r}
}

// FlatDistanceKm is the planar approximation: euclidean distance in degrees
// scaled by 111 km. Inaccurate at high latitude and across the antimeridian.
func FlatDistanceKm(a, b model.Location) float64 {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * KmPerDegree
}

// HaversineKm is the great-circle distance between a and b
func HaversineKm(a, b model.Location) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := lat2 - lat1
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Contains reports whether p is within the query radius
func (q Query) Contains(p model.Location) bool {
	return HaversineKm(q.Center, p) <= q.RadiusKm
}

// Filter keeps the items within the query radius, preserving order. A nil
// query keeps everything.
func Filter[T model.Located](q *Query, items []T) []T {
	if q == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q.Contains(item.Point()) {
			out = append(out, item)
		}
	}
	return out
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
