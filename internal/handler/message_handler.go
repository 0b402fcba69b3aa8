package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/internal/middleware"
	"github.com/lc3t35/GlobalHaven/internal/service"
)

// SendMessage delivers a message from the caller
func (h *Handler) SendMessage(c echo.Context) error {
	var req service.MessageInput
	if err := bind(c, &req); err != nil {
		return err
	}

	message, err := h.svc.SendMessage(c.Request().Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, message)
}

// ListMessages returns the caller's inbox and sent messages
func (h *Handler) ListMessages(c echo.Context) error {
	messages, err := h.svc.ListMessages(c.Request().Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messages)
}

// MarkMessageRead answers the same way whether or not anything changed
func (h *Handler) MarkMessageRead(c echo.Context) error {
	if err := h.svc.MarkMessageRead(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message marked as read"})
}
