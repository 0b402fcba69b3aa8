// Package handler adapts the service layer to echo routes.
package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
	"github.com/lc3t35/GlobalHaven/pkg/validate"
)

// Handler serves every GlobalHaven route
type Handler struct {
	svc    *service.Service
	mcpKey string
}

// New returns a Handler over svc. mcpKey guards the machine-client routes.
func New(svc *service.Service, mcpKey string) *Handler {
	return &Handler{svc: svc, mcpKey: mcpKey}
}

var errInvalidBody = echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid request body")

// bind decodes the request into dst and checks its validate tags
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		logger.FromContext(c).Warn("Failed to parse request", zap.Error(err))
		return errInvalidBody
	}
	return c.Validate(dst)
}

// statusOf maps an error to the response status and the detail the caller
// may see
func statusOf(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	}
	if validate.IsValidation(err) {
		return http.StatusUnprocessableEntity, validate.Detail(err)
	}

	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		return http.StatusInternalServerError, "Internal server error"
	}
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity, svcErr.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, svcErr.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, svcErr.Error()
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest, svcErr.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// ErrorHandler writes every error as {"detail": ...}. Internal errors are
// logged and never shown.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, detail := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c).Error("Request failed", zap.Error(err))
	}
	if status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, echo.Map{"detail": detail})
	}
	if writeErr != nil {
		logger.FromContext(c).Error("Failed to write error response", zap.Error(writeErr))
	}
}
