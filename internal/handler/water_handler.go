package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/internal/middleware"
	"github.com/lc3t35/GlobalHaven/internal/service"
)

// Water sources

// ListWaterSources handles filtered water source listing
func (h *Handler) ListWaterSources(c echo.Context) error {
	var q service.WaterSourceQuery
	if err := newQueryBinder(c).
		str("type", &q.Type).
		str("accessibility", &q.Accessibility).
		str("quality_status", &q.QualityStatus).
		near(&q.Lat, &q.Lng, &q.Radius).
		err(); err != nil {
		return err
	}

	sources, err := h.svc.ListWaterSources(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sources)
}

// CreateWaterSource handles registering a water source
func (h *Handler) CreateWaterSource(c echo.Context) error {
	var req service.WaterSourceInput
	if err := bind(c, &req); err != nil {
		return err
	}

	source, err := h.svc.CreateWaterSource(c.Request().Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, source)
}

// GetWaterSource handles retrieving a water source by id
func (h *Handler) GetWaterSource(c echo.Context) error {
	source, err := h.svc.GetWaterSource(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, source)
}

// UpdateWaterSource handles owner edits
func (h *Handler) UpdateWaterSource(c echo.Context) error {
	var req service.WaterSourceInput
	if err := bind(c, &req); err != nil {
		return err
	}

	source, err := h.svc.UpdateWaterSource(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, source)
}

// DeleteWaterSource soft-deletes an owned water source
func (h *Handler) DeleteWaterSource(c echo.Context) error {
	if err := h.svc.DeleteWaterSource(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Water source deleted successfully"})
}

// ReportQuality records a quality reading for a source
func (h *Handler) ReportQuality(c echo.Context) error {
	var req service.QualityReportInput
	if err := bind(c, &req); err != nil {
		return err
	}

	report, err := h.svc.ReportQuality(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// ListQualityReports returns a source's readings, newest first
func (h *Handler) ListQualityReports(c echo.Context) error {
	reports, err := h.svc.ListQualityReports(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}

// Infrastructure plans

// ListPlans handles filtered plan listing
func (h *Handler) ListPlans(c echo.Context) error {
	var q service.PlanQuery
	if err := newQueryBinder(c).
		str("plan_type", &q.PlanType).
		str("funding_status", &q.FundingStatus).
		near(&q.Lat, &q.Lng, &q.Radius).
		err(); err != nil {
		return err
	}

	plans, err := h.svc.ListPlans(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plans)
}

// CreatePlan handles posting a plan
func (h *Handler) CreatePlan(c echo.Context) error {
	var req service.PlanInput
	if err := bind(c, &req); err != nil {
		return err
	}

	plan, err := h.svc.CreatePlan(c.Request().Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

// GetPlan handles retrieving a plan by id
func (h *Handler) GetPlan(c echo.Context) error {
	plan, err := h.svc.GetPlan(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

// UpdatePlan handles owner edits
func (h *Handler) UpdatePlan(c echo.Context) error {
	var req service.PlanInput
	if err := bind(c, &req); err != nil {
		return err
	}

	plan, err := h.svc.UpdatePlan(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}

// DeletePlan soft-deletes an owned plan
func (h *Handler) DeletePlan(c echo.Context) error {
	if err := h.svc.DeletePlan(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Infrastructure plan deleted successfully"})
}

// Purification guides

// ListGuides handles filtered guide listing
func (h *Handler) ListGuides(c echo.Context) error {
	var q service.GuideQuery
	if err := newQueryBinder(c).
		str("method_type", &q.MethodType).
		str("difficulty", &q.Difficulty).
		err(); err != nil {
		return err
	}

	guides, err := h.svc.ListGuides(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guides)
}

// CreateGuide handles posting a guide
func (h *Handler) CreateGuide(c echo.Context) error {
	var req service.GuideInput
	if err := bind(c, &req); err != nil {
		return err
	}

	guide, err := h.svc.CreateGuide(c.Request().Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guide)
}

// GetGuide counts as one use of the guide
func (h *Handler) GetGuide(c echo.Context) error {
	guide, err := h.svc.GetGuide(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guide)
}

// UpdateGuide handles owner edits
func (h *Handler) UpdateGuide(c echo.Context) error {
	var req service.GuideInput
	if err := bind(c, &req); err != nil {
		return err
	}

	guide, err := h.svc.UpdateGuide(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guide)
}

// DeleteGuide soft-deletes an owned guide
func (h *Handler) DeleteGuide(c echo.Context) error {
	if err := h.svc.DeleteGuide(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Purification guide deleted successfully"})
}

// Alerts

// ListAlerts handles filtered alert listing
func (h *Handler) ListAlerts(c echo.Context) error {
	var q service.AlertQuery
	if err := newQueryBinder(c).
		str("alert_type", &q.AlertType).
		str("severity", &q.Severity).
		near(&q.Lat, &q.Lng, &q.Radius).
		err(); err != nil {
		return err
	}

	alerts, err := h.svc.ListAlerts(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alerts)
}

// CreateAlert handles raising an alert
func (h *Handler) CreateAlert(c echo.Context) error {
	var req service.AlertInput
	if err := bind(c, &req); err != nil {
		return err
	}

	alert, err := h.svc.CreateAlert(c.Request().Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// GetAlert handles retrieving an alert by id
func (h *Handler) GetAlert(c echo.Context) error {
	alert, err := h.svc.GetAlert(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// UpdateAlert lets the reporter edit or resolve an alert
func (h *Handler) UpdateAlert(c echo.Context) error {
	var req service.AlertInput
	if err := bind(c, &req); err != nil {
		return err
	}

	alert, err := h.svc.UpdateAlert(c.Request().Context(), middleware.CurrentUser(c).ID, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, alert)
}

// Usage

// LogUsage records the caller's daily consumption
func (h *Handler) LogUsage(c echo.Context) error {
	var req service.UsageInput
	if err := bind(c, &req); err != nil {
		return err
	}

	usage, err := h.svc.LogUsage(c.Request().Context(), middleware.CurrentUser(c).ID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usage)
}

func usageDays(c echo.Context) (int, error) {
	var days int
	if err := newQueryBinder(c).integer("days", &days).err(); err != nil {
		return 0, err
	}
	return days, nil
}

// UsageHistory returns the caller's recent usage rows
func (h *Handler) UsageHistory(c echo.Context) error {
	days, err := usageDays(c)
	if err != nil {
		return err
	}

	rows, err := h.svc.UsageHistory(c.Request().Context(), middleware.CurrentUser(c).ID, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// UsageStats summarises the caller's recent usage
func (h *Handler) UsageStats(c echo.Context) error {
	days, err := usageDays(c)
	if err != nil {
		return err
	}

	stats, err := h.svc.UsageStats(c.Request().Context(), middleware.CurrentUser(c).ID, days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
