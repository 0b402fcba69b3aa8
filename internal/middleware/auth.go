package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/model"
	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

const (
	userKey           = "user"
	credentialsDetail = "Could not validate credentials"
)

// Authenticator resolves a bearer token to a user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// CurrentUser returns the user stored by Auth, or nil on public routes
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(c echo.Context, detail string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"detail": detail})
}

// Auth requires a valid user bearer token and stores the user in the context
func Auth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			token, ok := bearerToken(c)
			if !ok {
				log.Warn("Missing or malformed bearer token")
				prometheus.RecordAuthError("missing_token")
				return unauthorized(c, credentialsDetail)
			}

			user, err := auth.Authenticate(c.Request().Context(), token)
			if errors.Is(err, service.ErrUnauthorized) {
				log.Warn("Rejected bearer token", zap.Error(err))
				return unauthorized(c, credentialsDetail)
			}
			if err != nil {
				return err
			}

			c.Set(userKey, user)
			logger.SetContext(c, log.With(zap.String("user_id", user.ID)))
			return next(c)
		}
	}
}

// MCPKey requires the shared machine-client key as the bearer token
func MCPKey(key string) echo.MiddlewareFunc {
	expected := []byte(key)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := bearerToken(c)
			if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(token), expected) != 1 {
				logger.FromContext(c).Warn("Invalid MCP API key")
				prometheus.RecordAuthError("invalid_mcp_key")
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "Invalid MCP API key"})
			}
			return next(c)
		}
	}
}
