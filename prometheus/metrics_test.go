package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware_CountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(MetricsMiddleware())
	e.GET("/api/resources/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	counter := HTTPRequestCounter.WithLabelValues("/api/resources/:id", http.MethodGet, "204")
	before := testutil.ToFloat64(counter)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/resources/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestRecordHelpers(t *testing.T) {
	before := testutil.ToFloat64(AuthErrorCounter.WithLabelValues("invalid_token"))
	RecordAuthError("invalid_token")
	assert.Equal(t, before+1, testutil.ToFloat64(AuthErrorCounter.WithLabelValues("invalid_token")))

	before = testutil.ToFloat64(DomainOperationCounter.WithLabelValues("resource", "create"))
	RecordOperation("resource", "create")
	assert.Equal(t, before+1, testutil.ToFloat64(DomainOperationCounter.WithLabelValues("resource", "create")))

	TrackDBOperation("query")(time.Now())
	assert.Positive(t, testutil.CollectAndCount(DBOperationDuration))
}

func TestPrometheusHandler_ExposesServiceInfo(t *testing.T) {
	rec := httptest.NewRecorder()
	GetPrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "globalhaven_info"))
}
