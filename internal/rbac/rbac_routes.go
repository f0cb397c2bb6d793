package rbac

import (
	"github.com/gin-gonic/gin"

	"go-timesheet/internal/middleware"
)

var _ middleware.RBACService = Service(nil)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)
	}
}
