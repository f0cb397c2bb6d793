package notification

import (
	"github.com/gin-gonic/gin"

	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.List)
		notifications.GET("/unread-count", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.UnreadCount)
		notifications.POST("/read-all", middleware.RBACAuthorize(rbacService, "notification", "write"), handler.MarkAllRead)
		notifications.POST("/:id/reply", middleware.RBACAuthorize(rbacService, "notification", "write"), handler.Reply)
	}
}
