package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

type point struct {
	name string
	loc  model.Location
}

func (p point) Point() model.Location { return p.loc }

func ptr(v float64) *float64 { return &v }

func TestFlatDistanceKm(t *testing.T) {
	origin := model.Location{}
	assert.InDelta(t, 157.0, FlatDistanceKm(origin, model.Location{Lat: 1, Lng: 1}), 0.1)
	assert.InDelta(t, 1.57, FlatDistanceKm(origin, model.Location{Lat: 0.01, Lng: 0.01}), 0.01)
}

func TestHaversineKm(t *testing.T) {
	origin := model.Location{}
	assert.InDelta(t, 157.2, HaversineKm(origin, model.Location{Lat: 1, Lng: 1}), 0.2)
	assert.InDelta(t, 1.57, HaversineKm(origin, model.Location{Lat: 0.01, Lng: 0.01}), 0.01)
	assert.InDelta(t, 0, HaversineKm(origin, origin), 0.0001)

	// Austin to Dallas
	assert.InDelta(t, 292, HaversineKm(
		model.Location{Lat: 30.2672, Lng: -97.7431},
		model.Location{Lat: 32.7767, Lng: -96.7970},
	), 5)

	// across the antimeridian the flat formula is wildly off, haversine is not
	west := model.Location{Lat: 0, Lng: 179.95}
	east := model.Location{Lat: 0, Lng: -179.95}
	assert.InDelta(t, 11.1, HaversineKm(west, east), 0.2)
	assert.Greater(t, FlatDistanceKm(west, east), 39000.0)
}

func TestFilter(t *testing.T) {
	items := []point{
		{name: "far", loc: model.Location{Lat: 1, Lng: 1}},
		{name: "near", loc: model.Location{Lat: 0.01, Lng: 0.01}},
	}

	q := NewQuery(ptr(0), ptr(0), ptr(10))
	require.NotNil(t, q)

	kept := Filter(q, items)
	require.Len(t, kept, 1)
	assert.Equal(t, "near", kept[0].name)
}

func TestFilter_NilQueryKeepsAll(t *testing.T) {
	items := []point{{name: "a"}, {name: "b"}}
	assert.Len(t, Filter[point](nil, items), 2)
}

func TestNewQuery(t *testing.T) {
	assert.Nil(t, NewQuery(nil, ptr(1), nil))
	assert.Nil(t, NewQuery(ptr(1), nil, nil))

	q := NewQuery(ptr(1), ptr(2), nil)
	require.NotNil(t, q)
	assert.Equal(t, DefaultRadiusKm, q.RadiusKm)

	q = NewQuery(ptr(1), ptr(2), ptr(-3))
	require.NotNil(t, q)
	assert.Equal(t, DefaultRadiusKm, q.RadiusKm)
}
