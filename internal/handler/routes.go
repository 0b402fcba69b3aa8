package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/lc3t35/GlobalHaven/internal/middleware"
	"github.com/lc3t35/GlobalHaven/pkg/validate"
)

// Routes registers every route on e, along with the request validator the
// handlers bind with
func (h *Handler) Routes(e *echo.Echo) {
	e.Validator = validate.New()

	e.GET("/health", HealthCheck)
	e.GET("/metrics", MetricsHandler)

	api := e.Group("/api")
	api.GET("/", Root)

	auth := api.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)

	user := api.Group("", middleware.Auth(h.svc))
	user.GET("/users/me", h.Me)
	user.GET("/geocode", h.Geocode)

	user.GET("/resources", h.ListResources)
	user.POST("/resources", h.CreateResource)
	user.GET("/resources/:id", h.GetResource)
	user.PUT("/resources/:id", h.UpdateResource)
	user.DELETE("/resources/:id", h.DeleteResource)

	user.GET("/messages", h.ListMessages)
	user.POST("/messages", h.SendMessage)
	user.PUT("/messages/:id/read", h.MarkMessageRead)

	water := user.Group("/water")
	water.GET("/sources", h.ListWaterSources)
	water.POST("/sources", h.CreateWaterSource)
	water.GET("/sources/:id", h.GetWaterSource)
	water.PUT("/sources/:id", h.UpdateWaterSource)
	water.DELETE("/sources/:id", h.DeleteWaterSource)
	water.GET("/sources/:id/reports", h.ListQualityReports)
	water.POST("/sources/:id/reports", h.ReportQuality)

	water.GET("/plans", h.ListPlans)
	water.POST("/plans", h.CreatePlan)
	water.GET("/plans/:id", h.GetPlan)
	water.PUT("/plans/:id", h.UpdatePlan)
	water.DELETE("/plans/:id", h.DeletePlan)

	water.GET("/guides", h.ListGuides)
	water.POST("/guides", h.CreateGuide)
	water.GET("/guides/:id", h.GetGuide)
	water.PUT("/guides/:id", h.UpdateGuide)
	water.DELETE("/guides/:id", h.DeleteGuide)

	water.GET("/alerts", h.ListAlerts)
	water.POST("/alerts", h.CreateAlert)
	water.GET("/alerts/:id", h.GetAlert)
	water.PUT("/alerts/:id", h.UpdateAlert)

	water.GET("/usage", h.UsageHistory)
	water.POST("/usage", h.LogUsage)
	water.GET("/usage/stats", h.UsageStats)

	mcp := api.Group("/mcp", middleware.MCPKey(h.mcpKey))
	mcp.POST("/search_resources", h.MCPSearchResources)
	mcp.POST("/create_resource", h.MCPCreateResource)
	mcp.POST("/get_user_stats", h.MCPUserStats)
	mcp.POST("/search_water_sources", h.MCPSearchWaterSources)
	mcp.POST("/create_water_source", h.MCPCreateWaterSource)
	mcp.POST("/report_water_quality", h.MCPReportWaterQuality)
	mcp.POST("/get_water_alerts", h.MCPWaterAlerts)
	mcp.POST("/create_water_alert", h.MCPCreateWaterAlert)
	mcp.POST("/search_purification_guides", h.MCPSearchGuides)
	mcp.POST("/log_water_usage", h.MCPLogUsage)
	mcp.POST("/get_water_stats", h.MCPWaterStats)
}
