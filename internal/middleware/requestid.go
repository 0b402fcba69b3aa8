package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/pkg/logger"
)

// RequestID makes sure every request carries an X-Request-ID, generating one
// when the caller did not send it, and echoes it back in the response
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(logger.RequestIDHeader, requestID)
		}
		c.Response().Header().Set(logger.RequestIDHeader, requestID)

		return next(c)
	}
}
