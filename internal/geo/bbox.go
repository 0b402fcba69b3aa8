package geo

import (
	"math"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

// Box is a latitude/longitude rectangle. When the box crosses the
// antimeridian MinLng > MaxLng.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// CrossesAntimeridian reports whether the longitude range wraps around ±180
func (b Box) CrossesAntimeridian() bool {
	return b.MinLng > b.MaxLng
}

// FullLongitude reports whether every longitude is inside the box
func (b Box) FullLongitude() bool {
	return b.MinLng <= -180 && b.MaxLng >= 180
}

// Contains reports whether p lies inside the box
func (b Box) Contains(p model.Location) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	switch {
	case b.FullLongitude():
		return true
	case b.CrossesAntimeridian():
		return p.Lng >= b.MinLng || p.Lng <= b.MaxLng
	default:
		return p.Lng >= b.MinLng && p.Lng <= b.MaxLng
	}
}

// BoundingBox returns a rectangle that contains every point within the query
// radius. It is a superset: callers still apply Contains.
func (q Query) BoundingBox() Box {
	dLat := q.RadiusKm / EarthRadiusKm * 180 / math.Pi

	box := Box{
		MinLat: q.Center.Lat - dLat,
		MaxLat: q.Center.Lat + dLat,
	}

	// near a pole every longitude qualifies
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.MinLat = math.Max(box.MinLat, -90)
		box.MaxLat = math.Min(box.MaxLat, 90)
		box.MinLng, box.MaxLng = -180, 180
		return box
	}

	angular := q.RadiusKm / EarthRadiusKm
	ratio := math.Sin(angular) / math.Cos(toRadians(q.Center.Lat))
	if angular >= math.Pi/2 || ratio >= 1 {
		box.MinLng, box.MaxLng = -180, 180
		return box
	}
	dLng := math.Asin(ratio) * 180 / math.Pi

	box.MinLng = normalizeLng(q.Center.Lng - dLng)
	box.MaxLng = normalizeLng(q.Center.Lng + dLng)
	return box
}

// normalizeLng wraps lng into [-180, 180)
func normalizeLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}
