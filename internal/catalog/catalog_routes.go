package catalog

import (
	"github.com/gin-gonic/gin"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	catalog := r.Group("/catalog")
	catalog.Use(middleware.AuthMiddleware())
	{
		catalog.GET("/options", handler.GetOptions)

		write := middleware.RBACAuthorize(rbacService, "catalog", "write")
		catalog.POST("/projects", write, handler.CreateProject)
		catalog.POST("/client-codes", write, handler.CreateClientCode)
		catalog.POST("/cost-centers", write, handler.CreateCostCenter)
		catalog.POST("/vehicles", write, handler.CreateVehicle)
		catalog.DELETE("/projects/:id", write, handler.DeactivateProject)
		catalog.DELETE("/client-codes/:id", write, handler.DeactivateClientCode)
		catalog.DELETE("/cost-centers/:id", write, handler.DeactivateCostCenter)
		catalog.DELETE("/vehicles/:id", write, handler.DeactivateVehicle)
	}
}
