package geo

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

func TestBoundingBox_ContainsRadius(t *testing.T) {
	q := Query{Center: model.Location{Lat: 45, Lng: 7}, RadiusKm: 50}
	box := q.BoundingBox()

	assert.False(t, box.CrossesAntimeridian())
	assert.Less(t, box.MinLat, 45.0)
	assert.Greater(t, box.MaxLat, 45.0)

	// points on the circle in the four cardinal directions stay inside the box
	for _, p := range []model.Location{
		{Lat: 45.449, Lng: 7},
		{Lat: 44.551, Lng: 7},
		{Lat: 45, Lng: 7.63},
		{Lat: 45, Lng: 6.37},
	} {
		assert.True(t, q.Contains(p) || HaversineKm(q.Center, p) < 50.5, "point %+v", p)
		assert.True(t, box.Contains(p), "point %+v", p)
	}
	assert.False(t, box.Contains(model.Location{Lat: 46, Lng: 7}))
}

func TestBoundingBox_Antimeridian(t *testing.T) {
	q := Query{Center: model.Location{Lat: 0, Lng: 179.99}, RadiusKm: 20}
	box := q.BoundingBox()

	assert.True(t, box.CrossesAntimeridian())
	assert.True(t, box.Contains(model.Location{Lat: 0, Lng: -179.95}))
	assert.True(t, box.Contains(model.Location{Lat: 0, Lng: 179.9}))
	assert.False(t, box.Contains(model.Location{Lat: 0, Lng: 0}))
}

func TestBoundingBox_Pole(t *testing.T) {
	q := Query{Center: model.Location{Lat: 89.95, Lng: 0}, RadiusKm: 50}
	box := q.BoundingBox()

	assert.True(t, box.FullLongitude())
	assert.Equal(t, 90.0, box.MaxLat)
}

func TestNormalizeLng(t *testing.T) {
	for in, want := range map[float64]float64{
		0:    0,
		179:  179,
		180:  -180,
		-180: -180,
		190:  -170,
		-190: 170,
		540:  -180,
		-721: -1,
	} {
		assert.InDelta(t, want, normalizeLng(in), 1e-9, "lng %v", in)
	}
}

func TestBoundingBox_ExtremeLongitudeReturns(t *testing.T) {
	for _, lng := range []float64{1e20, -1e20, math.Inf(1), math.Inf(-1), math.NaN()} {
		done := make(chan Box, 1)
		go func() {
			done <- Query{Center: model.Location{Lat: 0, Lng: lng}, RadiusKm: 10}.BoundingBox()
		}()
		select {
		case box := <-done:
			assert.False(t, box.Contains(model.Location{Lat: 45, Lng: 0}), "lng %v", lng)
		case <-time.After(time.Second):
			t.Fatalf("BoundingBox did not return for lng %v", lng)
		}
	}
}
