package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/internal/model"
)

// queryBinder collects query parameters. Optional numbers stay nil when the
// parameter is absent.
type queryBinder struct {
	c       echo.Context
	b       *echo.ValueBinder
	invalid bool
}

func newQueryBinder(c echo.Context) *queryBinder {
	return &queryBinder{c: c, b: echo.QueryParamsBinder(c)}
}

func (q *queryBinder) str(name string, dst *string) *queryBinder {
	q.b.String(name, dst)
	return q
}

func (q *queryBinder) optFloat(name string, dst **float64) *queryBinder {
	if q.c.QueryParam(name) == "" {
		return q
	}
	v := new(float64)
	q.b.Float64(name, v)
	*dst = v
	return q
}

// near binds the lat, lng and radius parameters. Coordinates outside the
// globe and non-finite radii are rejected.
func (q *queryBinder) near(lat, lng, radius **float64) *queryBinder {
	q.optFloat("lat", lat).optFloat("lng", lng).optFloat("radius", radius)

	var point model.Location
	if *lat != nil {
		point.Lat = **lat
	}
	if *lng != nil {
		point.Lng = **lng
	}
	if !point.Valid() {
		q.invalid = true
	}
	if *radius != nil && (math.IsNaN(**radius) || math.IsInf(**radius, 0)) {
		q.invalid = true
	}
	return q
}

func (q *queryBinder) integer(name string, dst *int) *queryBinder {
	q.b.Int(name, dst)
	return q
}

func (q *queryBinder) err() error {
	if err := q.b.BindError(); err != nil || q.invalid {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid query parameters")
	}
	return nil
}
