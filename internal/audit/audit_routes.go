package audit

import (
	"github.com/gin-gonic/gin"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	logs := r.Group("/audit")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.List)
	}
}
