package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/prometheus"
)

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "globalhaven",
	})
}

// Root describes the service
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "GlobalHaven API"})
}

// MetricsHandler exposes the Prometheus registry
func MetricsHandler(c echo.Context) error {
	prometheus.GetPrometheusHandler().ServeHTTP(c.Response(), c.Request())
	return nil
}
