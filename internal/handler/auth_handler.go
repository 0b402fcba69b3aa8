package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/internal/middleware"
	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/prometheus"
)

// Register creates an account and returns its token
func (h *Handler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := bind(c, &req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return err
	}

	user, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Login exchanges credentials for a bearer token
func (h *Handler) Login(c echo.Context) error {
	var req service.LoginInput
	if err := bind(c, &req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return err
	}

	token, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// Me returns the authenticated user
func (h *Handler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// Geocode resolves a free-form address for the client
func (h *Handler) Geocode(c echo.Context) error {
	location, err := h.svc.Geocode(c.Request().Context(), c.QueryParam("address"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"location": location})
}
