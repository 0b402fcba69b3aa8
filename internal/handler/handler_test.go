package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/repository"
	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/pkg/geocode"
	"github.com/lc3t35/GlobalHaven/pkg/jwtutil"
)

const testMCPKey = "mcp-test-key"

type stubGeocoder struct{}

func (stubGeocoder) Geocode(_ context.Context, address string) (*geocode.Result, error) {
	if address == "Nairobi" {
		return &geocode.Result{Latitude: -1.2921, Longitude: 36.8219, Matched: true}, nil
	}
	return &geocode.Result{}, nil
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	tokens := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", Expiration: 30 * time.Minute})
	svc := service.New(repository.NewMemoryStore(), tokens, stubGeocoder{}, nil)

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	New(svc, testMCPKey).Routes(e)
	return e
}

func do(e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signup registers username and returns its id and a bearer token
func signup(t *testing.T, e *echo.Echo, username string) (string, string) {
	t.Helper()
	rec := do(e, http.MethodPost, "/api/auth/register", "", echo.Map{
		"username": username,
		"email":    username + "@example.org",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	user := decode[model.User](t, rec)

	rec = do(e, http.MethodPost, "/api/auth/login", "", echo.Map{"username": username, "password": "secret"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return user.ID, decode[service.Token](t, rec).AccessToken
}

func resourceBody() echo.Map {
	return echo.Map{
		"title":    "Water filters",
		"category": "tools",
		"type":     "available",
		"location": echo.Map{"lat": 0.01, "lng": 0.01},
	}
}

func TestHealthAndRoot(t *testing.T) {
	e := newTestEcho(t)

	rec := do(e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"globalhaven"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/", "", nil)
	assert.JSONEq(t, `{"message":"GlobalHaven API"}`, rec.Body.String())
}

func TestRegister_DuplicateAndValidation(t *testing.T) {
	e := newTestEcho(t)
	signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/auth/register", "", echo.Map{
		"username": "alice", "email": "new@example.org", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Username or email already registered"}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/auth/register", "", echo.Map{"username": "bob"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(e, http.MethodPost, "/api/auth/register", "", echo.Map{
		"username": "carol", "email": "carol@example.org", "password": "x",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newTestEcho(t)
	signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/auth/login", "", echo.Map{"username": "alice", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Incorrect username or password"}`, rec.Body.String())
}

func TestMe_RequiresToken(t *testing.T) {
	e := newTestEcho(t)
	id, token := signup(t, e, "alice")

	rec := do(e, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, decode[model.User](t, rec).ID)

	rec = do(e, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	rec = do(e, http.MethodGet, "/api/resources", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResourceLifecycle(t *testing.T) {
	e := newTestEcho(t)
	aliceID, alice := signup(t, e, "alice")
	_, bob := signup(t, e, "bob")

	rec := do(e, http.MethodPost, "/api/resources", alice, resourceBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[model.Resource](t, rec)
	assert.Equal(t, aliceID, created.UserID)

	rec = do(e, http.MethodGet, "/api/resources/"+created.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Water filters", decode[model.Resource](t, rec).Title)

	rec = do(e, http.MethodGet, "/api/resources?lat=0&lng=0&radius=10", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Resource](t, rec), 1)

	rec = do(e, http.MethodGet, "/api/resources?lat=1&lng=1", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.Resource](t, rec))

	update := resourceBody()
	update["title"] = "Ceramic filters"
	rec = do(e, http.MethodPut, "/api/resources/"+created.ID, bob, update)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Resource not found or not owned by user"}`, rec.Body.String())

	rec = do(e, http.MethodPut, "/api/resources/"+created.ID, alice, update)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ceramic filters", decode[model.Resource](t, rec).Title)

	rec = do(e, http.MethodDelete, "/api/resources/"+created.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Resource deleted successfully"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/resources/"+created.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Resource not found"}`, rec.Body.String())
}

func TestResource_ValidationAndBadQuery(t *testing.T) {
	e := newTestEcho(t)
	_, token := signup(t, e, "alice")

	body := resourceBody()
	body["category"] = "gold"
	rec := do(e, http.MethodPost, "/api/resources", token, body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(e, http.MethodGet, "/api/resources?lat=north&lng=0", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestResource_ExtremeCoordinatesRejected(t *testing.T) {
	e := newTestEcho(t)
	_, token := signup(t, e, "alice")
	rec := do(e, http.MethodPost, "/api/resources", token, resourceBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, query := range []string{
		"lat=0&lng=1e20",
		"lat=0&lng=-1e20",
		"lat=0&lng=Inf",
		"lat=0&lng=-Inf",
		"lat=NaN&lng=0",
		"lat=91&lng=0",
		"lat=0&lng=0&radius=Inf",
	} {
		rec := do(e, http.MethodGet, "/api/resources?"+query, token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, query)
		assert.JSONEq(t, `{"detail":"Invalid query parameters"}`, rec.Body.String(), query)
	}
	rec = do(e, http.MethodGet, "/api/water/sources?lat=0&lng=1e20", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// the store is still writable afterwards
	rec = do(e, http.MethodPost, "/api/resources", token, resourceBody())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/mcp/search_resources", testMCPKey, echo.Map{
		"action": "search_resources",
		"data":   echo.Map{"lat": 0, "lng": 1e20},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"detail":"lng must be between -180 and 180"}`, rec.Body.String())
}

func TestMessages(t *testing.T) {
	e := newTestEcho(t)
	_, alice := signup(t, e, "alice")
	bobID, bob := signup(t, e, "bob")

	rec := do(e, http.MethodPost, "/api/messages", alice, echo.Map{"receiver_id": bobID, "content": "Still need filters?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	sent := decode[model.Message](t, rec)

	rec = do(e, http.MethodPut, "/api/messages/"+sent.ID+"/read", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Message marked as read"}`, rec.Body.String())

	rec = do(e, http.MethodPut, "/api/messages/unknown/read", bob, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/messages", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	messages := decode[[]model.Message](t, rec)
	require.Len(t, messages, 1)
	assert.True(t, messages[0].IsRead)
}

func TestGeocode(t *testing.T) {
	e := newTestEcho(t)
	_, token := signup(t, e, "alice")

	rec := do(e, http.MethodGet, "/api/geocode?address=Nairobi", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"location":{"lat":-1.2921,"lng":36.8219}}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/geocode?address=Nowhere", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Address not found"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/geocode", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWaterSourceAndReports(t *testing.T) {
	e := newTestEcho(t)
	_, token := signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/water/sources", token, echo.Map{
		"name":    "Borehole",
		"type":    "well",
		"address": "Nairobi",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	source := decode[model.WaterSource](t, rec)
	assert.Equal(t, -1.2921, source.Location.Lat)

	rec = do(e, http.MethodPost, "/api/water/sources/"+source.ID+"/reports", token, echo.Map{
		"overall_rating": "caution",
		"contaminants":   []string{"e.coli"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/water/sources?quality_status=caution", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.WaterSource](t, rec), 1)

	rec = do(e, http.MethodGet, "/api/water/sources/"+source.ID+"/reports", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.QualityReport](t, rec), 1)

	rec = do(e, http.MethodPost, "/api/water/sources/missing/reports", token, echo.Map{"overall_rating": "safe"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuideUsageCount(t *testing.T) {
	e := newTestEcho(t)
	_, token := signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/water/guides", token, echo.Map{
		"title":       "Solar disinfection",
		"method_type": "solar",
		"difficulty":  "easy",
		"steps":       []string{"fill bottle", "leave in sun for 6 hours"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	guide := decode[model.PurificationGuide](t, rec)

	do(e, http.MethodGet, "/api/water/guides/"+guide.ID, token, nil)
	rec = do(e, http.MethodGet, "/api/water/guides/"+guide.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, decode[model.PurificationGuide](t, rec).UsageCount)
}

func TestAlerts(t *testing.T) {
	e := newTestEcho(t)
	_, token := signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/water/alerts", token, echo.Map{
		"title":      "Pipe burst",
		"alert_type": "outage",
		"severity":   "critical",
		"location":   echo.Map{"lat": 10, "lng": 10},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	alert := decode[model.WaterAlert](t, rec)
	assert.Equal(t, 5.0, alert.RadiusKm)

	rec = do(e, http.MethodGet, "/api/water/alerts?severity=critical", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.WaterAlert](t, rec), 1)

	rec = do(e, http.MethodGet, "/api/water/alerts/"+alert.ID, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsage_UpsertAndStats(t *testing.T) {
	e := newTestEcho(t)
	_, token := signup(t, e, "alice")

	for _, liters := range []float64{3, 7} {
		rec := do(e, http.MethodPost, "/api/water/usage", token, echo.Map{"drinking_liters": liters})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := do(e, http.MethodGet, "/api/water/usage?days=7", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]model.WaterUsage](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, 7.0, rows[0].TotalLiters)

	rec = do(e, http.MethodGet, "/api/water/usage/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[service.UsageStats](t, rec)
	assert.Equal(t, 1, stats.DaysTracked)
	assert.Equal(t, 7.0, stats.CommunityDailyAverage)

	rec = do(e, http.MethodPost, "/api/water/usage", token, echo.Map{"cooking_liters": -2})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMCP_RejectsWrongKey(t *testing.T) {
	e := newTestEcho(t)

	for _, path := range []string{"/api/mcp/search_resources", "/api/mcp/get_user_stats", "/api/mcp/create_resource"} {
		rec := do(e, http.MethodPost, path, "wrong-key", echo.Map{"action": "x", "data": echo.Map{}})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"detail":"Invalid MCP API key"}`, rec.Body.String())
	}

	for name, body := range map[string]string{
		"malformed": `{"action": "create_resource", "data": {`,
		"empty":     "",
		"not json":  "title=Tent",
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/mcp/create_resource", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer wrong-key")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.JSONEq(t, `{"detail":"Invalid MCP API key"}`, rec.Body.String(), name)
	}

	rec := do(e, http.MethodPost, "/api/mcp/search_resources", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMCP_CreateAndSearchResources(t *testing.T) {
	e := newTestEcho(t)
	userID, _ := signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/mcp/create_resource", testMCPKey, echo.Map{
		"action": "create_resource",
		"data":   echo.Map{"title": "Tent", "category": "shelter", "type": "available"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"user_id required in data"}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/mcp/create_resource", testMCPKey, echo.Map{
		"action": "create_resource",
		"data":   echo.Map{"user_id": "ghost", "title": "Tent", "category": "shelter", "type": "available"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"User not found"}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/mcp/create_resource", testMCPKey, echo.Map{
		"action": "create_resource",
		"data": echo.Map{
			"user_id": userID, "title": "Tent", "category": "shelter", "type": "available", "address": "Nairobi",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[struct {
		Resource model.Resource `json:"resource"`
	}](t, rec)
	assert.Equal(t, userID, created.Resource.UserID)
	assert.Equal(t, 36.8219, created.Resource.Location.Lng)

	rec = do(e, http.MethodPost, "/api/mcp/search_resources", testMCPKey, echo.Map{
		"action": "search_resources",
		"data":   echo.Map{"category": "shelter"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[struct {
		Resources []model.Resource `json:"resources"`
	}](t, rec)
	assert.Len(t, found.Resources, 1)
}

func TestMCP_Stats(t *testing.T) {
	e := newTestEcho(t)
	signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/mcp/get_user_stats", testMCPKey, echo.Map{"action": "get_user_stats"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode[struct {
		Stats service.CommunityStats `json:"stats"`
	}](t, rec)
	assert.EqualValues(t, 1, stats.Stats.TotalUsers)
	assert.Len(t, stats.Stats.Categories, len(model.ResourceCategories))

	rec = do(e, http.MethodPost, "/api/mcp/get_water_stats", testMCPKey, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	water := decode[struct {
		Stats service.WaterStats `json:"stats"`
	}](t, rec)
	assert.Len(t, water.Stats.SourcesByQuality, len(model.QualityStatuses))
}

func TestMCP_LogUsage(t *testing.T) {
	e := newTestEcho(t)
	userID, _ := signup(t, e, "alice")

	rec := do(e, http.MethodPost, "/api/mcp/log_water_usage", testMCPKey, echo.Map{
		"action": "log_water_usage",
		"data":   echo.Map{"user_id": userID, "date": "2025-01-02", "bathing_liters": 20, "other_liters": 5},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[struct {
		Usage model.WaterUsage `json:"usage"`
	}](t, rec)
	assert.Equal(t, 25.0, out.Usage.TotalLiters)
	assert.Equal(t, "2025-01-02", out.Usage.Date)
}

func TestMCP_BadData(t *testing.T) {
	e := newTestEcho(t)

	rec := do(e, http.MethodPost, "/api/mcp/search_resources", testMCPKey, echo.Map{"action": "x", "data": "not an object"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
