package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/lc3t35/GlobalHaven/internal/service"
	"github.com/lc3t35/GlobalHaven/pkg/logger"
)

// mcpRequest is the envelope every machine-client call posts. Action is
// informational; the route decides what happens.
type mcpRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// bindMCP decodes the envelope's data into dst and checks its validate tags.
// Missing data leaves dst zero.
func bindMCP(c echo.Context, dst interface{}) error {
	var req mcpRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	data := bytes.TrimSpace(req.Data)
	if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		if err := json.Unmarshal(data, dst); err != nil {
			logger.FromContext(c).Warn("Failed to parse MCP data",
				zap.String("action", req.Action),
				zap.Error(err))
			return errInvalidBody
		}
	}
	return c.Validate(dst)
}

// MCPSearchResources serves the search_resources tool
func (h *Handler) MCPSearchResources(c echo.Context) error {
	var q service.ResourceQuery
	if err := bindMCP(c, &q); err != nil {
		return err
	}

	resources, err := h.svc.SearchResources(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"resources": resources})
}

// MCPCreateResource serves the create_resource tool
func (h *Handler) MCPCreateResource(c echo.Context) error {
	var data struct {
		service.ResourceInput
		UserID string `json:"user_id"`
	}
	if err := bindMCP(c, &data); err != nil {
		return err
	}

	resource, err := h.svc.CreateResourceFor(c.Request().Context(), data.UserID, data.ResourceInput)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"resource": resource})
}

// MCPUserStats serves the get_user_stats tool
func (h *Handler) MCPUserStats(c echo.Context) error {
	stats, err := h.svc.CommunityStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}

// MCPSearchWaterSources serves the search_water_sources tool
func (h *Handler) MCPSearchWaterSources(c echo.Context) error {
	var q service.WaterSourceQuery
	if err := bindMCP(c, &q); err != nil {
		return err
	}

	sources, err := h.svc.SearchWaterSources(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"water_sources": sources})
}

// MCPCreateWaterSource serves the create_water_source tool
func (h *Handler) MCPCreateWaterSource(c echo.Context) error {
	var data struct {
		service.WaterSourceInput
		UserID string `json:"user_id"`
	}
	if err := bindMCP(c, &data); err != nil {
		return err
	}

	source, err := h.svc.CreateWaterSourceFor(c.Request().Context(), data.UserID, data.WaterSourceInput)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"water_source": source})
}

// MCPReportWaterQuality serves the report_water_quality tool
func (h *Handler) MCPReportWaterQuality(c echo.Context) error {
	var data struct {
		service.QualityReportInput
		UserID        string `json:"user_id"`
		WaterSourceID string `json:"water_source_id"`
	}
	if err := bindMCP(c, &data); err != nil {
		return err
	}

	report, err := h.svc.ReportQualityFor(c.Request().Context(), data.UserID, data.WaterSourceID, data.QualityReportInput)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"report": report})
}

// MCPWaterAlerts serves the get_water_alerts tool
func (h *Handler) MCPWaterAlerts(c echo.Context) error {
	var q service.AlertQuery
	if err := bindMCP(c, &q); err != nil {
		return err
	}

	alerts, err := h.svc.ActiveAlerts(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"alerts": alerts})
}

// MCPCreateWaterAlert serves the create_water_alert tool
func (h *Handler) MCPCreateWaterAlert(c echo.Context) error {
	var data struct {
		service.AlertInput
		UserID string `json:"user_id"`
	}
	if err := bindMCP(c, &data); err != nil {
		return err
	}

	alert, err := h.svc.CreateAlertFor(c.Request().Context(), data.UserID, data.AlertInput)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"alert": alert})
}

// MCPSearchGuides serves the search_purification_guides tool
func (h *Handler) MCPSearchGuides(c echo.Context) error {
	var q service.GuideQuery
	if err := bindMCP(c, &q); err != nil {
		return err
	}

	guides, err := h.svc.SearchGuides(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"guides": guides})
}

// MCPLogUsage serves the log_water_usage tool
func (h *Handler) MCPLogUsage(c echo.Context) error {
	var data struct {
		service.UsageInput
		UserID string `json:"user_id"`
	}
	if err := bindMCP(c, &data); err != nil {
		return err
	}

	usage, err := h.svc.LogUsageFor(c.Request().Context(), data.UserID, data.UsageInput)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"usage": usage})
}

// MCPWaterStats serves the get_water_stats tool
func (h *Handler) MCPWaterStats(c echo.Context) error {
	stats, err := h.svc.WaterStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"stats": stats})
}
