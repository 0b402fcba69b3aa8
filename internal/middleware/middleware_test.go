package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
)

type stubAuth map[string]*model.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*model.User, error) {
	if token == "boom" {
		return nil, eris.New("database down")
	}
	if user, ok := s[token]; ok {
		return user, nil
	}
	return nil, service.ErrUnauthorized
}

func serve(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	e := echo.New()
	e.Use(RequestID)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().Header.Get(logger.RequestIDHeader))
	})

	rec := serve(e, "")
	generated := rec.Header().Get(logger.RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(logger.RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(logger.RequestIDHeader))
}

func newAuthEcho() *echo.Echo {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, CurrentUser(c).Username)
	}, Auth(stubAuth{"good": {ID: "1", Username: "alice"}}))
	return e
}

func TestAuth_AcceptsKnownToken(t *testing.T) {
	rec := serve(newAuthEcho(), "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	for name, header := range map[string]string{
		"missing":   "",
		"scheme":    "Basic good",
		"empty":     "Bearer ",
		"malformed": "Bearer",
	} {
		t.Run(name, func(t *testing.T) {
			rec := serve(newAuthEcho(), header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, rec.Body.String())
		})
	}
}

func TestAuth_StoreFailureIsNotUnauthorized(t *testing.T) {
	rec := serve(newAuthEcho(), "Bearer boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMCPKey(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, MCPKey("mcp-secret"))

	assert.Equal(t, http.StatusNoContent, serve(e, "Bearer mcp-secret").Code)

	for _, header := range []string{"", "Bearer wrong", "Bearer mcp-secret-longer", "mcp-secret"} {
		rec := serve(e, header)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, `{"detail":"Invalid MCP API key"}`, rec.Body.String())
	}
}

func TestMCPKey_EmptyKeyRejectsEverything(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, MCPKey(""))

	assert.Equal(t, http.StatusUnauthorized, serve(e, "Bearer ").Code)
}
