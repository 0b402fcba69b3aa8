package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	contextKey      = "logger"
)

// FromContext retrieves the request-scoped logger from the echo context,
// falling back to the global logger tagged with the request id
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(contextKey).(*zap.Logger); ok {
		return l
	}

	requestID := c.Response().Header().Get(RequestIDHeader)
	if requestID == "" {
		requestID = "unknown"
	}
	return GetLogger().With(zap.String("request_id", requestID))
}

// SetContext replaces the request-scoped logger, e.g. after enriching it
func SetContext(c echo.Context, l *zap.Logger) {
	c.Set(contextKey, l)
}
