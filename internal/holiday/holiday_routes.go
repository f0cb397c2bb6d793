package holiday

import (
	"github.com/gin-gonic/gin"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	holidays := r.Group("/holidays")
	holidays.Use(middleware.AuthMiddleware())
	{
		holidays.GET("", middleware.RBACAuthorize(rbacService, "holiday", "read"), handler.List)
		holidays.POST("", middleware.RBACAuthorize(rbacService, "holiday", "write"), handler.Create)
		holidays.DELETE("/:id", middleware.RBACAuthorize(rbacService, "holiday", "write"), handler.Delete)
		holidays.POST("/import", middleware.RBACAuthorize(rbacService, "holiday", "import"), handler.Import)
	}
}
