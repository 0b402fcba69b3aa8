package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/internal/middleware"
	"github.com/lc3t35/GlobalHaven/internal/service"
)

// ListResources handles filtered resource listing
func (h *Handler) ListResources(c echo.Context) error {
	var q service.ResourceQuery
	if err := newQueryBinder(c).
		str("category", &q.Category).
		str("type", &q.Type).
		near(&q.Lat, &q.Lng, &q.Radius).
		err(); err != nil {
		return err
	}

	resources, err := h.svc.ListResources(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resources)
}

// CreateResource handles posting a resource
func (h *Handler) CreateResource(c echo.Context) error {
	var req service.ResourceInput
	if err := bind(c, &req); err != nil {
		return err
	}

	resource, err := h.svc.CreateResource(c.Request().Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resource)
}

// GetResource handles retrieving a resource by id
func (h *Handler) GetResource(c echo.Context) error {
	resource, err := h.svc.GetResource(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resource)
}

// UpdateResource handles owner edits
func (h *Handler) UpdateResource(c echo.Context) error {
	var req service.ResourceInput
	if err := bind(c, &req); err != nil {
		return err
	}

	resource, err := h.svc.UpdateResource(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resource)
}

// DeleteResource soft-deletes an owned resource
func (h *Handler) DeleteResource(c echo.Context) error {
	if err := h.svc.DeleteResource(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Resource deleted successfully"})
}
