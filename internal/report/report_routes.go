package report

import (
	"github.com/gin-gonic/gin"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, health *HealthHandler, rbacService rbac.Service) {
	reports := rg.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/dashboard", middleware.RBACAuthorize(rbacService, "report", "read"), handler.Dashboard)
	}

	// Machine-to-machine surface: the payroll export authenticates with
	// the X-API-KEY header, the health probe is open.
	rg.GET("/export/entries", middleware.APIKey(), handler.Export)
	rg.GET("/health", health.Check)
}
